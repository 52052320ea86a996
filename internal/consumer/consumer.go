package consumer

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"vendorpro/internal/entity"
	"vendorpro/internal/service"
)

// Consumer reacts to sale lifecycle events: an approved sale gets its stock
// reserved and its commission calculated.
type Consumer struct {
	productSvc    *service.ProductService
	commissionSvc *service.CommissionService
	reader        *kafka.Reader
}

func NewConsumer(productSvc *service.ProductService, commissionSvc *service.CommissionService, reader *kafka.Reader) *Consumer {
	return &Consumer{
		productSvc:    productSvc,
		commissionSvc: commissionSvc,
		reader:        reader,
	}
}

// Start reads sale events until the context is cancelled.
func (c *Consumer) Start(ctx context.Context) {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Error().Msgf("Error reading message: %v", err)
			continue
		}

		c.processMessage(ctx, msg)
	}
}

// processMessage processes the message received from the sale topic.
func (c *Consumer) processMessage(ctx context.Context, msg kafka.Message) {
	var sale entity.Sale
	if err := json.Unmarshal(msg.Value, &sale); err != nil {
		log.Error().Msgf("Error unmarshalling message: %v", err)
		return
	}

	// key -> "sale-approved-1" or "sale-rejected-1"
	key := string(msg.Key)
	parts := strings.Split(key, "-")
	if len(parts) < 2 {
		log.Warn().Msgf("Skipping message with unexpected key %q", key)
		return
	}
	eventType := parts[1]

	switch eventType {
	case "approved":
		c.handleApproved(ctx, &sale)
	case "created", "rejected":
		// Nothing to do: stock is only touched on approval.
	default:
		log.Warn().Msgf("Skipping unknown sale event %q", eventType)
	}
}

func (c *Consumer) handleApproved(ctx context.Context, sale *entity.Sale) {
	var reserved []entity.SaleItem
	for _, item := range sale.Items {
		if err := c.productSvc.ReserveStock(ctx, item.ProductID, item.Quantity); err != nil {
			log.Error().Msgf("Error reserving stock for product %d on sale %d: %v", item.ProductID, sale.ID, err)
			// Put back what was already taken for this sale.
			for _, r := range reserved {
				if err := c.productSvc.ReleaseStock(ctx, r.ProductID, r.Quantity); err != nil {
					log.Error().Msgf("Error releasing stock for product %d on sale %d: %v", r.ProductID, sale.ID, err)
				}
			}
			return
		}
		reserved = append(reserved, item)
	}

	if _, err := c.commissionSvc.CalculateCommission(ctx, sale.ID); err != nil {
		// "Not calculated" is a valid outcome when the shop has no matching
		// rule; the sale itself stays approved.
		log.Warn().Msgf("Commission not calculated for sale %d: %v", sale.ID, err)
	}
}
