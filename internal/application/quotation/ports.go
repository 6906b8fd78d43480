// Package quotation implementa el flujo comercial: solicitudes de cotización (RFQ),
// ofertas (Bid) y la aceptación que da origen al embarque.
package quotation

import (
	"context"

	"github.com/jhoicas/Freight-api/internal/domain/entity"
	"github.com/jhoicas/Freight-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción con los repositorios del flujo comercial.
type TxRunner interface {
	RunQuotation(ctx context.Context, fn func(rfqs repository.RFQRepository, bids repository.BidRepository, shipments repository.ShipmentRepository, seq repository.SequenceRepository) error) error
}

// Notifier correos del flujo comercial. Nunca falla la operación.
type Notifier interface {
	RFQSubmitted(ctx context.Context, company *entity.Company, rfq *entity.RFQ, customerName string)
	QuotationSent(ctx context.Context, company *entity.Company, customer *entity.Customer, rfq *entity.RFQ, bid *entity.Bid, pdf []byte)
}

// QuotationRenderer genera el PDF de la oferta.
type QuotationRenderer interface {
	RenderQuotation(company *entity.Company, customer *entity.Customer, rfq *entity.RFQ, bid *entity.Bid) ([]byte, error)
}

// BookingListener recibe el embarque recién creado al aceptar una oferta
// (programación de recordatorios y aviso al cliente).
type BookingListener interface {
	ShipmentBooked(ctx context.Context, s *entity.Shipment)
}

// Secuencias de numeración por empresa.
const (
	SeqRFQ      = "RFQ"
	SeqBid      = "BID"
	SeqShipment = "SHIPMENT"
)
