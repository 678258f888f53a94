package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ctxSession extracts the session id injected by the Auth middleware and
// performs a fast-fail check before any service call: a missing sid means the
// middleware did not run or the token predates the current format.
func ctxSession(c echo.Context) (string, error) {
	sid, _ := c.Get("sid").(string)
	if sid == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing session identity")
	}
	return sid, nil
}
