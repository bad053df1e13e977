package projection

import (
	"context"
	"encoding/json"
	"log"

	"github.com/example/storefront/internal/domain/cart"
	"github.com/example/storefront/internal/domain/message"
	"github.com/example/storefront/internal/domain/order"
	"github.com/example/storefront/internal/domain/product"
	"github.com/example/storefront/internal/domain/review"
	"github.com/example/storefront/internal/domain/user"
	"github.com/example/storefront/internal/infrastructure/store"
	"github.com/example/storefront/internal/readmodel"
)

// Projector consumes domain events and maintains the read models the query
// side serves from
type Projector struct {
	readStore store.ReadStoreInterface
}

func NewProjector(readStore store.ReadStoreInterface) *Projector {
	return &Projector{readStore: readStore}
}

// HandleEvent is the Kafka consumer entry point
func (p *Projector) HandleEvent(ctx context.Context, key, value []byte) error {
	var event store.Event
	if err := json.Unmarshal(value, &event); err != nil {
		return err
	}
	return p.Project(event)
}

// Project applies a single stored event to the read models
func (p *Projector) Project(event store.Event) error {
	log.Printf("[Projector] Received event: %s (aggregate: %s)", event.EventType, event.AggregateType)

	switch event.AggregateType {
	case product.AggregateType:
		return p.handleProductEvent(event)
	case cart.AggregateType:
		return p.handleCartEvent(event)
	case order.AggregateType:
		return p.handleOrderEvent(event)
	case review.AggregateType:
		return p.handleReviewEvent(event)
	case message.AggregateType:
		return p.handleMessageEvent(event)
	case user.AggregateType:
		return p.handleUserEvent(event)
	}

	return nil
}

func (p *Projector) handleProductEvent(event store.Event) error {
	switch event.EventType {
	case product.EventProductCreated:
		var e product.ProductCreated
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		return p.readStore.Set("products", e.ProductID, &readmodel.ProductReadModel{
			ID:               e.ProductID,
			Name:             e.Name,
			Category:         e.Category,
			Description:      e.Description,
			Specifications:   e.Specifications,
			MainImageURL:     e.MainImageURL,
			GalleryImageURLs: e.GalleryImageURLs,
			Price:            e.Price,
			OriginalPrice:    e.OriginalPrice,
			DiscountedPrice:  e.DiscountedPrice,
			Availability:     e.Availability,
			Quantity:         e.Quantity,
			CreatedAt:        e.CreatedAt,
			UpdatedAt:        e.CreatedAt,
		})

	case product.EventProductUpdated:
		var e product.ProductUpdated
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		_, err := p.readStore.Update("products", e.ProductID, func(current any) any {
			prod := current.(*readmodel.ProductReadModel)
			prod.Name = e.Name
			prod.Category = e.Category
			prod.Description = e.Description
			prod.Specifications = e.Specifications
			prod.MainImageURL = e.MainImageURL
			prod.GalleryImageURLs = e.GalleryImageURLs
			prod.Price = e.Price
			prod.OriginalPrice = e.OriginalPrice
			prod.DiscountedPrice = e.DiscountedPrice
			prod.Availability = e.Availability
			prod.Quantity = e.Quantity
			prod.UpdatedAt = e.UpdatedAt
			return prod
		})
		return err

	case product.EventProductDeleted:
		var e product.ProductDeleted
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		// Carts and orders hold their own snapshots, so no cascade
		return p.readStore.Delete("products", e.ProductID)
	}

	return nil
}

func recomputeCartTotal(c *readmodel.CartReadModel) {
	total := 0
	for _, line := range c.Lines {
		total += line.EffectiveUnitPrice() * line.Quantity
	}
	c.Total = total
}

func (p *Projector) handleCartEvent(event store.Event) error {
	switch event.EventType {
	case cart.EventLineAdded:
		var e cart.CartLineAdded
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}

		current, found, err := p.readStore.Get("carts", e.CartID)
		if err != nil {
			return err
		}

		var model *readmodel.CartReadModel
		if found {
			model = current.(*readmodel.CartReadModel)
		} else {
			model = &readmodel.CartReadModel{ID: e.CartID, UserID: e.UserID}
		}

		merged := false
		for i, line := range model.Lines {
			if line.LineID == e.LineID {
				model.Lines[i].Quantity += e.Quantity
				merged = true
				break
			}
		}
		if !merged {
			model.Lines = append(model.Lines, readmodel.CartLineReadModel{
				LineID:          e.LineID,
				ProductID:       e.ProductID,
				Name:            e.Name,
				UnitPrice:       e.UnitPrice,
				DiscountedPrice: e.DiscountedPrice,
				ImageURL:        e.ImageURL,
				Size:            e.Size,
				Quantity:        e.Quantity,
				AddedAt:         e.AddedAt,
			})
		}
		recomputeCartTotal(model)
		return p.readStore.Set("carts", e.CartID, model)

	case cart.EventLineQuantitySet:
		var e cart.CartLineQuantitySet
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		_, err := p.readStore.Update("carts", e.CartID, func(current any) any {
			model := current.(*readmodel.CartReadModel)
			for i, line := range model.Lines {
				if line.LineID == e.LineID {
					model.Lines[i].Quantity = e.Quantity
					break
				}
			}
			recomputeCartTotal(model)
			return model
		})
		return err

	case cart.EventLineRemoved:
		var e cart.CartLineRemoved
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		_, err := p.readStore.Update("carts", e.CartID, func(current any) any {
			model := current.(*readmodel.CartReadModel)
			lines := model.Lines[:0]
			for _, line := range model.Lines {
				if line.LineID != e.LineID {
					lines = append(lines, line)
				}
			}
			model.Lines = lines
			recomputeCartTotal(model)
			return model
		})
		return err
	}

	return nil
}

func (p *Projector) handleOrderEvent(event store.Event) error {
	switch event.EventType {
	case order.EventOrderPlaced:
		var e order.OrderPlaced
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		items := make([]readmodel.OrderItemReadModel, 0, len(e.Items))
		for _, item := range e.Items {
			items = append(items, readmodel.OrderItemReadModel{
				ProductID: item.ProductID,
				Name:      item.Name,
				Quantity:  item.Quantity,
				UnitPrice: item.UnitPrice,
				ImageURL:  item.ImageURL,
				Size:      item.Size,
			})
		}
		return p.readStore.Set("orders", e.OrderID, &readmodel.OrderReadModel{
			ID:           e.OrderID,
			UserID:       e.UserID,
			CustomerName: e.CustomerName,
			Email:        e.Email,
			Phone:        e.Phone,
			Address:      e.Address,
			Items:        items,
			Total:        e.Total,
			ProofURL:     e.ProofURL,
			Status:       string(order.StatusPending),
			CreatedAt:    e.PlacedAt,
			UpdatedAt:    e.PlacedAt,
		})

	case order.EventOrderFulfilled:
		var e order.OrderFulfilled
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		_, err := p.readStore.Update("orders", e.OrderID, func(current any) any {
			model := current.(*readmodel.OrderReadModel)
			model.Status = string(order.StatusFulfilled)
			model.UpdatedAt = e.FulfilledAt
			return model
		})
		return err

	case order.EventOrderRejected:
		var e order.OrderRejected
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		_, err := p.readStore.Update("orders", e.OrderID, func(current any) any {
			model := current.(*readmodel.OrderReadModel)
			model.Status = string(order.StatusRejected)
			model.UpdatedAt = e.RejectedAt
			return model
		})
		return err
	}

	return nil
}

func (p *Projector) handleReviewEvent(event store.Event) error {
	switch event.EventType {
	case review.EventReviewSubmitted:
		var e review.ReviewSubmitted
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		return p.readStore.Set("reviews", e.ReviewID, &readmodel.ReviewReadModel{
			ID:          e.ReviewID,
			UserID:      e.UserID,
			ProductID:   e.ProductID,
			DisplayName: e.DisplayName,
			Body:        e.Body,
			Rating:      e.Rating,
			PhotoURL:    e.PhotoURL,
			CreatedAt:   e.SubmittedAt,
			UpdatedAt:   e.SubmittedAt,
		})

	case review.EventReviewRevised:
		var e review.ReviewRevised
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		_, err := p.readStore.Update("reviews", e.ReviewID, func(current any) any {
			model := current.(*readmodel.ReviewReadModel)
			model.Body = e.Body
			model.Rating = e.Rating
			model.UpdatedAt = e.RevisedAt
			return model
		})
		return err

	case review.EventReviewDeleted:
		var e review.ReviewDeleted
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		return p.readStore.Delete("reviews", e.ReviewID)
	}

	return nil
}

func (p *Projector) handleMessageEvent(event store.Event) error {
	switch event.EventType {
	case message.EventMessageReceived:
		var e message.MessageReceived
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		return p.readStore.Set("messages", e.MessageID, &readmodel.MessageReadModel{
			ID:        e.MessageID,
			Name:      e.Name,
			Email:     e.Email,
			Body:      e.Body,
			CreatedAt: e.ReceivedAt,
		})

	case message.EventMessageDeleted:
		var e message.MessageDeleted
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		return p.readStore.Delete("messages", e.MessageID)
	}

	return nil
}

func (p *Projector) handleUserEvent(event store.Event) error {
	switch event.EventType {
	case user.EventUserCreated:
		var e user.UserCreated
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		return p.readStore.Set("users", e.UserID, &readmodel.UserReadModel{
			ID:           e.UserID,
			Email:        e.Email,
			PasswordHash: e.PasswordHash,
			Name:         e.Name,
			Role:         e.Role,
			CreatedAt:    e.CreatedAt,
			UpdatedAt:    e.CreatedAt,
		})

	case user.EventUserUpdated:
		var e user.UserUpdated
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		_, err := p.readStore.Update("users", e.UserID, func(current any) any {
			model := current.(*readmodel.UserReadModel)
			model.Name = e.Name
			model.Phone = e.Phone
			model.PhotoURL = e.PhotoURL
			model.UpdatedAt = e.UpdatedAt
			return model
		})
		return err

	case user.EventUserPasswordChanged:
		var e user.UserPasswordChanged
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		_, err := p.readStore.Update("users", e.UserID, func(current any) any {
			model := current.(*readmodel.UserReadModel)
			model.PasswordHash = e.PasswordHash
			model.UpdatedAt = e.ChangedAt
			return model
		})
		return err

	case user.EventUserDeleted:
		var e user.UserDeleted
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		if err := p.readStore.Delete("users", e.UserID); err != nil {
			return err
		}
		// The user's cart goes with the account
		return p.readStore.Delete("carts", cart.GetCartID(e.UserID))
	}

	return nil
}
