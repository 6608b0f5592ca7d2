package domain

import "errors"

var (
	ErrInvalidTenant = errors.New("invalid tenant")
	ErrInvalidPeriod = errors.New("invalid period")
	ErrInvalidWindow = errors.New("invalid date window")
)
