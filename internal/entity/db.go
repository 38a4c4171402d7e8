package entity

// Re-export shared types from the common package so callers can stay on a
// single entity import.

import (
	"linkmark/internal/entity/common"
)

type StringArray = common.StringArray
type Response = common.Response
type Meta = common.Meta
