package controller

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"storefront/mail"
	"storefront/middleware"
	"storefront/model"
	"storefront/session"
)

type AuthController struct {
	DB       *gorm.DB
	Sessions *session.Store
	Mailer   *mail.Mailer
	Validate *validator.Validate
	BaseURL  string
}

type SignupInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"required"`
}

func (ac *AuthController) Signup(c *fiber.Ctx) error {
	var input SignupInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid payload"})
	}
	if err := ac.Validate.Struct(input); err != nil {
		return c.Status(422).JSON(fiber.Map{"error": "invalid signup fields: " + err.Error()})
	}

	var existing model.User
	if err := ac.DB.Where("email = ?", input.Email).First(&existing).Error; err == nil {
		return c.Status(422).JSON(fiber.Map{"error": "email already in use"})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "signup failed"})
	}

	user := model.User{
		Email:    input.Email,
		Password: string(hashed),
		Name:     input.Name,
	}
	err = ac.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		return tx.Create(&model.Cart{UserID: user.ID, Items: model.CartItems{}}).Error
	})
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "signup failed"})
	}

	return c.Status(201).JSON(user)
}

func (ac *AuthController) Login(c *fiber.Ctx) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid payload"})
	}

	var user model.User
	if err := ac.DB.Where("email = ?", body.Email).First(&user).Error; err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "invalid email or password"})
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(body.Password)); err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "invalid email or password"})
	}

	sid, err := ac.Sessions.Create(c.Context(), user.ID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "login failed"})
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    sid,
		HTTPOnly: true,
		SameSite: "Lax",
	})
	return c.JSON(user)
}

func (ac *AuthController) Logout(c *fiber.Ctx) error {
	if sid := c.Cookies(middleware.SessionCookie); sid != "" {
		if err := ac.Sessions.Destroy(c.Context(), sid); err != nil {
			log.Printf("Failed to destroy session: %v", err)
		}
	}
	c.ClearCookie(middleware.SessionCookie)
	return c.JSON(fiber.Map{"status": "logged out"})
}

// RequestReset issues a one-hour reset token and mails the reset link. The
// response does not reveal whether the email has an account.
func (ac *AuthController) RequestReset(c *fiber.Ctx) error {
	var body struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid payload"})
	}

	var user model.User
	if err := ac.DB.Where("email = ?", body.Email).First(&user).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(500).JSON(fiber.Map{"error": "reset failed"})
		}
		return c.JSON(fiber.Map{"status": "reset mail sent if the account exists"})
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "reset failed"})
	}
	token := hex.EncodeToString(buf)

	expires := time.Now().Add(time.Hour)
	user.ResetToken = token
	user.ResetTokenExpiresAt = &expires
	if err := ac.DB.Save(&user).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "reset failed"})
	}

	if err := ac.Mailer.SendPasswordReset(user.Email, ac.BaseURL+"/reset/"+token); err != nil {
		log.Printf("Failed to send reset mail to %s: %v", user.Email, err)
	}

	return c.JSON(fiber.Map{"status": "reset mail sent if the account exists"})
}

func (ac *AuthController) CompleteReset(c *fiber.Ctx) error {
	token := c.Params("token")

	var body struct {
		Password string `json:"password"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid payload"})
	}
	if len(body.Password) < 6 {
		return c.Status(422).JSON(fiber.Map{"error": "password too short"})
	}

	var user model.User
	err := ac.DB.
		Where("reset_token = ? AND reset_token_expires_at > ?", token, time.Now()).
		First(&user).Error
	if err != nil {
		return c.Status(422).JSON(fiber.Map{"error": "invalid or expired token"})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "reset failed"})
	}

	user.Password = string(hashed)
	user.ResetToken = ""
	user.ResetTokenExpiresAt = nil
	if err := ac.DB.Save(&user).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "reset failed"})
	}

	return c.JSON(fiber.Map{"status": "password updated"})
}
