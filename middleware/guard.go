package middleware

import (
	"path"

	"events-webapp/auth"

	"github.com/gofiber/fiber/v2"
)

// Paths names the login page and the landing page of the admin area.
type Paths struct {
	Login   []string
	Landing string
}

var AdminPaths = Paths{
	Login:   []string{"/admin/", "/admin/index.html"},
	Landing: "/admin/dashboard.html",
}

func (p Paths) isLogin(path string) bool {
	for _, login := range p.Login {
		if path == login {
			return true
		}
	}
	return false
}

// Decide returns where a page request for path should be sent given whether
// someone is signed in. Both branches are evaluated on every call, so applying
// Decide again to its own target never redirects a second time.
func (p Paths) Decide(path string, signedIn bool) (target string, redirect bool) {
	onLogin := p.isLogin(path)
	switch {
	case !signedIn && !onLogin:
		return p.Login[len(p.Login)-1], true
	case signedIn && onLogin:
		return p.Landing, true
	}
	return "", false
}

// SessionGuard runs Decide for every admin page request, using the session
// cookie as the current identity. Assets such as scripts and styles pass.
func SessionGuard(paths Paths, verify func(token string) (auth.Identity, error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if ext := path.Ext(c.Path()); ext != "" && ext != ".html" {
			return c.Next()
		}

		signedIn := false
		if token := c.Cookies(SessionCookie); token != "" {
			if identity, err := verify(token); err == nil {
				signedIn = true
				c.Locals("admin", identity)
			}
		}

		page := c.Path()
		if page == "/admin" {
			page = "/admin/"
		}
		if target, redirect := paths.Decide(page, signedIn); redirect {
			return c.Redirect(target, fiber.StatusFound)
		}
		return c.Next()
	}
}
