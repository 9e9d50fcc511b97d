package handlers

import (
	"log"
	"strings"
	"time"

	"events-webapp/auth"
	"events-webapp/errors"
	"events-webapp/messages"
	"events-webapp/middleware"

	"github.com/gofiber/fiber/v2"
)

type Credentials struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// loginErrorKey maps a sign-in failure to its message id and status.
func loginErrorKey(err error) (string, int) {
	switch auth.CodeOf(err) {
	case auth.CodeInvalidCredential, auth.CodeUserNotFound, auth.CodeWrongPassword:
		return messages.LoginInvalid, fiber.StatusUnauthorized
	case auth.CodeTooManyRequests:
		return messages.LoginThrottled, fiber.StatusTooManyRequests
	}
	return messages.LoginFailed, fiber.StatusInternalServerError
}

func (h *Handler) Login(c *fiber.Ctx) error {
	creds := new(Credentials)
	if err := c.BodyParser(creds); err != nil {
		return errors.RaiseBadRequestError(c, h.t(c, messages.FormInvalid, nil))
	}
	creds.Email = strings.TrimSpace(creds.Email)
	if creds.Email == "" || creds.Password == "" {
		return h.invalidForm(c, []string{"email", "password"})
	}

	session, err := h.Auth.SignIn(c.UserContext(), creds.Email, creds.Password)
	if err != nil {
		key, status := loginErrorKey(err)
		if status == fiber.StatusInternalServerError {
			log.Printf("handlers: sign in %s: %v", creds.Email, err)
		}
		return errors.RaiseError(c, status, h.t(c, key, nil), string(auth.CodeOf(err)))
	}

	// a new login starts from fresh page state
	h.Pages.Drop(session.Identity.Email)

	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return errors.Success(c, h.t(c, messages.LoginSuccess, nil), fiber.Map{
		"token":       session.Token,
		"expiresAt":   session.ExpiresAt,
		"identity":    session.Identity,
		"displayName": session.Identity.DisplayName(),
		"redirect":    middleware.AdminPaths.Landing,
	})
}

// LoginThrottled answers requests the login rate limiter turned away.
func (h *Handler) LoginThrottled(c *fiber.Ctx) error {
	return errors.RaiseTooManyRequestsError(c, h.t(c, messages.LoginThrottled, nil))
}

func (h *Handler) Logout(c *fiber.Ctx) error {
	identity, _ := middleware.Identity(c)
	h.Pages.Drop(identity.Email)
	// expire the cookie on the path login set it on, or browsers keep sending it
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return errors.Success(c, h.t(c, messages.LoggedOut, nil), fiber.Map{"redirect": middleware.AdminPaths.Login[1]})
}

func (h *Handler) Me(c *fiber.Ctx) error {
	identity, ok := middleware.Identity(c)
	if !ok {
		return errors.RaisePermissionsError(c, "no identity on request")
	}
	return errors.Success(c, "", fiber.Map{
		"identity":    identity,
		"displayName": identity.DisplayName(),
	})
}
