package models

import (
	"strings"

	"github.com/google/uuid"
)

const tempIDPrefix = "tmp_"

// NewTempID returns a local identifier for a ticket or coupon that has
// not been created in the record store yet. The save path swaps temp
// ids for store-assigned ones.
func NewTempID() string {
	return tempIDPrefix + uuid.NewString()
}

// IsTempID reports whether id is a local identifier rather than a
// store-assigned one.
func IsTempID(id string) bool {
	return strings.HasPrefix(id, tempIDPrefix)
}

// HasExternalID reports whether id addresses an existing store record.
func HasExternalID(id string) bool {
	return id != "" && !IsTempID(id)
}
