package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Freight-api/internal/domain/entity"
)

// RFQRepository persistencia de solicitudes de cotización.
type RFQRepository interface {
	Create(ctx context.Context, rfq *entity.RFQ) error
	GetByID(ctx context.Context, id string) (*entity.RFQ, error)
	List(ctx context.Context, companyID string, f ListFilter) ([]*entity.RFQ, int, error)
	// UpdateStatus cambia el estado solo si sigue en from; si otro proceso lo movió
	// (o no existe) devuelve domain.ErrConflict.
	UpdateStatus(ctx context.Context, id, from, to string, at time.Time) error
	// ExpireBefore marca EXPIRED los RFQs abiertos con ValidUntil anterior a now. Devuelve cuántos.
	ExpireBefore(ctx context.Context, now time.Time) (int64, error)
}

// BidRepository persistencia de ofertas y sus líneas.
type BidRepository interface {
	Create(ctx context.Context, bid *entity.Bid) error
	GetByID(ctx context.Context, id string) (*entity.Bid, error)
	ListByRFQ(ctx context.Context, rfqID string) ([]*entity.Bid, error)
	// UpdateStatus igual que en RFQRepository: from -> to o domain.ErrConflict.
	UpdateStatus(ctx context.Context, id, from, to string, at time.Time) error
	// RejectSiblings rechaza las demás ofertas vivas del RFQ.
	RejectSiblings(ctx context.Context, rfqID, acceptedBidID string, at time.Time) error
	ExpireBefore(ctx context.Context, now time.Time) (int64, error)
}

// SequenceRepository consecutivos por empresa y tipo de documento.
type SequenceRepository interface {
	// Next incrementa y devuelve el consecutivo (UPDATE ... RETURNING dentro de la tx).
	Next(ctx context.Context, companyID, kind string) (int64, error)
}
