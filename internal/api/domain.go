package api

import (
	"github.com/tc2044/ma-classifier-demo/internal/announcements"
)

// Domain holds the domain systems that comprise the API.
type Domain struct {
	Announcements announcements.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	return &Domain{
		Announcements: announcements.New(
			runtime.Database.Connection(),
			runtime.Storage,
			runtime.Logger,
			runtime.Pagination,
		),
	}
}
