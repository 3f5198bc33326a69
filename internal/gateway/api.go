package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/Adithya91-code/Farmchaingpt/internal/crop"
	"github.com/Adithya91-code/Farmchaingpt/internal/obs"
)

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignInResponse is the backend's sign-in payload. Identifiers may arrive
// as numbers and are kept in string form.
type SignInResponse struct {
	ID            crop.Text `json:"id"`
	Email         crop.Text `json:"email"`
	Role          crop.Text `json:"role"`
	Token         crop.Text `json:"token"`
	FarmerID      crop.Text `json:"farmerId,omitempty"`
	DistributorID crop.Text `json:"distributorId,omitempty"`
	Name          crop.Text `json:"name"`
	Location      crop.Text `json:"location"`
}

type SignUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Location string `json:"location"`
	Role     string `json:"role"`
}

// SignIn authenticates and, when the backend returns a token, stores it
// through the client's Credentials before returning.
func (c *Client) SignIn(ctx context.Context, email, password string) Result[SignInResponse] {
	res := send[SignInResponse](ctx, c, call{
		method: http.MethodPost,
		path:   "/auth/signin",
		body:   SignInRequest{Email: email, Password: password},
	})
	if !res.OK() || res.Data.Token == "" || c.creds == nil {
		return res
	}
	if err := c.creds.SetToken(ctx, res.Data.Token.String()); err != nil {
		obs.LogEvent("error", "credential_store_failed", map[string]any{"error": err.Error()})
		return Result[SignInResponse]{Error: fmt.Sprintf("failed to store session: %v", err)}
	}
	return res
}

// SignUp registers a user. The role is sent upper-cased.
func (c *Client) SignUp(ctx context.Context, req SignUpRequest) Result[json.RawMessage] {
	req.Role = strings.ToUpper(req.Role)
	return send[json.RawMessage](ctx, c, call{
		method: http.MethodPost,
		path:   "/auth/signup",
		body:   req,
	})
}

// SignOut forgets the stored credential. No backend call is made.
func (c *Client) SignOut(ctx context.Context) error {
	if c.creds == nil {
		return nil
	}
	return c.creds.ClearToken(ctx)
}

// ListCrops returns the crops visible to the signed-in user.
func (c *Client) ListCrops(ctx context.Context) Result[[]crop.Wire] {
	return send[[]crop.Wire](ctx, c, call{method: http.MethodGet, path: "/crops", auth: true})
}

func (c *Client) CreateCrop(ctx context.Context, d crop.Draft) Result[crop.Wire] {
	return send[crop.Wire](ctx, c, call{method: http.MethodPost, path: "/crops", body: d, auth: true})
}

func (c *Client) UpdateCrop(ctx context.Context, id string, d crop.Draft) Result[crop.Wire] {
	return send[crop.Wire](ctx, c, call{method: http.MethodPut, path: cropPath(id), body: d, auth: true})
}

// DeleteCrop succeeds with zero Data on a no-content response.
func (c *Client) DeleteCrop(ctx context.Context, id string) Result[json.RawMessage] {
	return send[json.RawMessage](ctx, c, call{method: http.MethodDelete, path: cropPath(id), auth: true})
}

func (c *Client) ListFarmerCrops(ctx context.Context, farmerID string) Result[[]crop.Wire] {
	return send[[]crop.Wire](ctx, c, call{
		method: http.MethodGet,
		path:   "/crops/farmer/" + url.PathEscape(farmerID),
		auth:   true,
	})
}

func (c *Client) ListDistributorCrops(ctx context.Context, distributorID string) Result[[]crop.Wire] {
	return send[[]crop.Wire](ctx, c, call{
		method: http.MethodGet,
		path:   "/crops/distributor/" + url.PathEscape(distributorID),
		auth:   true,
	})
}

// ScanCrop resolves a scan identifier anonymously; no credential is sent.
func (c *Client) ScanCrop(ctx context.Context, id string) Result[crop.Wire] {
	return send[crop.Wire](ctx, c, call{method: http.MethodGet, path: "/crops/scan/" + url.PathEscape(id)})
}

func cropPath(id string) string {
	return "/crops/" + url.PathEscape(id)
}
