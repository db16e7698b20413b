package rest

import (
	"context"
	"fmt"
	"net/url"

	"github.com/goccy/go-json"
	"github.com/gorilla/schema"
	"github.com/valyala/fasthttp"
)

var guildQueryEncoder = schema.NewEncoder()

// CurrentUserGuildsParams is the query string accepted by GET /users/@me/guilds.
//
// https://discord.com/developers/docs/resources/user#get-current-user-guilds-query-string-params
type CurrentUserGuildsParams struct {
	Before string `schema:"before,omitempty"`
	After  string `schema:"after,omitempty"`
	Limit  int    `schema:"limit,omitempty"`
}

// Guild is the subset of the partial Guild object returned by GetCurrentUserGuilds.
type Guild struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// GetCurrentUserGuilds lists the guilds the authenticated bot is a member of. It exists as a
// second, opt-in REST operation beyond gateway discovery — everything an application does with
// guild/channel/message resources belongs in a dedicated REST client, not here.
func (c *Client) GetCurrentUserGuilds(ctx context.Context, params CurrentUserGuildsParams) ([]Guild, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rest: rate limiter: %w", err)
	}

	query := url.Values{}
	if err := guildQueryEncoder.Encode(params, query); err != nil {
		return nil, fmt.Errorf("rest: encoding query params: %w", err)
	}

	endpoint := c.baseURL + "/users/@me/guilds"
	if encoded := query.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	request := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(request)
	response := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(response)

	request.Header.SetMethod(fasthttp.MethodGet)
	request.Header.Set("Authorization", "Bot "+c.token)
	request.SetRequestURI(endpoint)

	if err := c.http.DoTimeout(request, response, c.timeout); err != nil {
		return nil, fmt.Errorf("rest: GET /users/@me/guilds: %w", err)
	}

	if response.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("rest: GET /users/@me/guilds: unexpected status %d", response.StatusCode())
	}

	var guilds []Guild
	if err := json.Unmarshal(response.Body(), &guilds); err != nil {
		return nil, fmt.Errorf("rest: decoding /users/@me/guilds response: %w", err)
	}

	return guilds, nil
}
