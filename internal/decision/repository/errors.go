package repository

import "errors"

var (
	ErrDecisionInvalid = errors.New("decision is missing required fields")
)
