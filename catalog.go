package main

import (
	"context"

	"github.com/ttpr0/go-seareach/batch"
)

const MAX_SEARCH_RESULTS = 25

//**********************************************************
// location catalog
//**********************************************************

func HandleSearchRequest(ctx context.Context, manager *GraphManager, req SearchRequest) Result {
	if req.Q == "" {
		return BadRequest("missing query parameter q")
	}
	return OK(batch.SearchOrigins(manager.GetCatalog(), req.Q, req.FilterType, MAX_SEARCH_RESULTS))
}

// Returns the whole catalog, live vessel positions are not tracked.
func HandleAllPortsRequest(ctx context.Context, manager *GraphManager, req AllPortsRequest) Result {
	return OK(manager.GetCatalog())
}
