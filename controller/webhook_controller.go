package controller

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"storefront/kafka"
	"storefront/model"
	"storefront/payment"
)

const signatureTolerance = 5 * time.Minute

type WebhookController struct {
	DB            *gorm.DB
	Redis         *redis.Client
	WebhookSecret string
}

// HandlePaymentConfirmation materializes an order from the payer's cart
// when the gateway confirms a checkout session. The payload is adversarial
// input: it is trusted only after its signature verifies, and the user is
// re-resolved by the email the gateway reports. Duplicate deliveries of the
// same session id produce at most one order.
func (wc *WebhookController) HandlePaymentConfirmation(c *fiber.Ctx) error {
	body := c.Body()

	sig := c.Get(payment.SignatureHeader)
	if err := payment.VerifySignature(body, sig, wc.WebhookSecret, time.Now(), signatureTolerance); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid signature"})
	}

	event, err := payment.ParseConfirmation(body)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid payload"})
	}

	if event.Type != payment.EventCheckoutCompleted {
		return c.JSON(fiber.Map{"status": "ignored"})
	}

	sessionID := event.Data.SessionID
	if sessionID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "invalid payload"})
	}

	// Fast path for redelivery. The orders unique index on the session id
	// is the real guard; this just skips the work.
	if wc.Redis != nil {
		if n, err := wc.Redis.Exists(c.Context(), "webhook:session:"+sessionID).Result(); err == nil && n > 0 {
			return c.JSON(fiber.Map{"status": "duplicate"})
		}
	}

	var existing model.Order
	if err := wc.DB.Where("checkout_session_id = ?", sessionID).First(&existing).Error; err == nil {
		return c.JSON(fiber.Map{"status": "duplicate"})
	}

	var user model.User
	if err := wc.DB.Where("email = ?", event.Data.CustomerEmail).First(&user).Error; err != nil {
		wc.recordFailure(event.ID, body, "no user for confirmed payment email")
		return c.JSON(fiber.Map{"status": "recorded"})
	}

	cart, err := loadCart(wc.DB, user.ID)
	if err != nil {
		wc.recordFailure(event.ID, body, "cart lookup failed")
		return c.Status(500).JSON(fiber.Map{"error": "materialization failed"})
	}

	lines, err := resolveCartLines(wc.DB, cart)
	if err != nil {
		wc.recordFailure(event.ID, body, "cart resolution failed")
		return c.Status(500).JSON(fiber.Map{"error": "materialization failed"})
	}
	if len(lines) == 0 {
		wc.recordFailure(event.ID, body, "confirmed payment for empty cart")
		return c.JSON(fiber.Map{"status": "recorded"})
	}

	order := model.Order{
		UserID:            user.ID,
		UserEmail:         user.Email,
		CheckoutSessionID: sessionID,
	}
	for _, l := range lines {
		order.Lines = append(order.Lines, model.OrderLine{
			Qty:     l.Qty,
			Product: l.Product.Snapshot(),
		})
	}

	// Order creation and cart clearing commit together; the unique session
	// id turns a racing duplicate into a constraint error, not two orders.
	err = wc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		cart.Clear()
		return tx.Save(cart).Error
	})
	if err != nil {
		var winner model.Order
		if wc.DB.Where("checkout_session_id = ?", sessionID).First(&winner).Error == nil {
			return c.JSON(fiber.Map{"status": "duplicate"})
		}
		wc.recordFailure(event.ID, body, "materialization failed")
		return c.Status(500).JSON(fiber.Map{"error": "materialization failed"})
	}

	if wc.Redis != nil {
		if err := wc.Redis.Set(c.Context(), "webhook:session:"+sessionID, "1", 24*time.Hour).Err(); err != nil {
			log.Printf("Failed to mark webhook session %s: %v", sessionID, err)
		}
	}

	kafka.PublishOrderCreated(kafka.OrderCreatedEvent{
		OrderID:     order.ID,
		UserID:      user.ID,
		AmountCents: order.TotalCents(),
		SessionID:   sessionID,
	})

	return c.JSON(fiber.Map{"status": "created", "order_id": order.ID})
}

// recordFailure keeps the raw confirmation payload so a paid-but-unfiled
// order can be replayed or reconciled by hand instead of silently dropped.
func (wc *WebhookController) recordFailure(eventID string, body []byte, reason string) {
	fc := model.FailedConfirmation{
		EventID: eventID,
		Payload: string(body),
		Reason:  reason,
	}
	if err := wc.DB.Create(&fc).Error; err != nil {
		log.Printf("Failed to record confirmation %s (%s): %v", eventID, reason, err)
	}
}
