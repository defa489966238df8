package common

import "github.com/andrescamacho/floorsense-go/internal/application/mediator"

// Request and Response alias the mediator contract so command and query
// packages depend on a single application-layer surface.
type (
	Request  = mediator.Request
	Response = mediator.Response
)
