// Package models contains the Plane resource types used across plane-mcp.
package models

import "fmt"

// Network is Plane's project visibility setting.
type Network int

const (
	NetworkSecret Network = 0
	NetworkPublic Network = 2
)

// DefaultNetwork is used when a project is created without an explicit network.
const DefaultNetwork = NetworkPublic

// Valid reports whether n is a network value Plane accepts.
func (n Network) Valid() bool {
	return n == NetworkSecret || n == NetworkPublic
}

func (n Network) String() string {
	switch n {
	case NetworkSecret:
		return "secret"
	case NetworkPublic:
		return "public"
	}
	return fmt.Sprintf("network(%d)", int(n))
}

// Project is a Plane project as returned by the workspace projects endpoint.
type Project struct {
	ID          string  `json:"id"`
	Identifier  string  `json:"identifier"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Network     Network `json:"network"`
}

// CreateProjectRequest is the POST body for creating a project.
type CreateProjectRequest struct {
	Name        string  `json:"name"`
	Identifier  string  `json:"identifier"`
	Description string  `json:"description"`
	Network     Network `json:"network"`
}
