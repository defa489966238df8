package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/floorsense-go/internal/application/common"
	"github.com/andrescamacho/floorsense-go/internal/domain/catalog"
)

// ListSKUsQuery retrieves the catalog.
type ListSKUsQuery struct{}

// ListSKUsResponse carries SKUs in id order.
type ListSKUsResponse struct {
	SKUs []*SKUDTO `json:"skus"`
}

// SKUDTO is the wire shape of a catalog entry.
type SKUDTO struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	Source         string          `json:"source"`
	Variant        catalog.Variant `json:"variant"`
	Personalisable bool            `json:"personalisable"`
}

// ListSKUsHandler answers the catalog read model.
type ListSKUsHandler struct {
	skus catalog.SKURepository
}

// NewListSKUsHandler creates the handler.
func NewListSKUsHandler(skus catalog.SKURepository) *ListSKUsHandler {
	return &ListSKUsHandler{skus: skus}
}

// Handle executes the query.
func (h *ListSKUsHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	if _, ok := request.(*ListSKUsQuery); !ok {
		return nil, fmt.Errorf("invalid request type: expected *ListSKUsQuery")
	}

	skus, err := h.skus.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*SKUDTO, 0, len(skus))
	for _, sku := range skus {
		out = append(out, &SKUDTO{
			ID:             sku.ID(),
			Title:          sku.Title(),
			Source:         string(sku.Source()),
			Variant:        sku.Variant(),
			Personalisable: sku.Personalisable(),
		})
	}
	return &ListSKUsResponse{SKUs: out}, nil
}
