/**
 * @description
 * This file implements the Discord OAuth login flow for the dashboard:
 * redirect to Discord's authorize page with a random state, exchange the
 * callback code for a token, fetch the user's identity from the Discord API
 * and issue the session cookie. Any upstream failure redirects back to the
 * login page rather than surfacing an error body.
 *
 * @dependencies
 * - crypto/rand, encoding/hex, encoding/json, net/http: Standard Go libraries.
 * - golang.org/x/oauth2: For the authorization code flow.
 * - internal/domain: For the authenticated identity.
 */

package api

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/nilebank/ledger-service/internal/domain"
)

const (
	discordAuthURL  = "https://discord.com/oauth2/authorize"
	discordTokenURL = "https://discord.com/api/oauth2/token"
	discordMeURL    = "https://discord.com/api/users/@me"

	stateCookieName = "nilebank_oauth_state"
)

// OAuthHandlers implements the /auth/discord login and callback endpoints.
type OAuthHandlers struct {
	config        *oauth2.Config
	sessionSecret string
}

// NewOAuthHandlers creates OAuthHandlers for the given Discord application.
func NewOAuthHandlers(clientID, clientSecret, callbackURL, sessionSecret string) *OAuthHandlers {
	return &OAuthHandlers{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Scopes:       []string{"identify", "guilds"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  discordAuthURL,
				TokenURL: discordTokenURL,
			},
		},
		sessionSecret: sessionSecret,
	}
}

// LoginHandler starts the authorization code flow.
func (h *OAuthHandlers) LoginHandler(w http.ResponseWriter, r *http.Request) {
	state, err := randomState()
	if err != nil {
		log.Printf("level=error component=oauth msg=\"state generation failed\" err=%v", err)
		http.Redirect(w, r, loginPath, http.StatusFound)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		Expires:  time.Now().Add(10 * time.Minute),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.config.AuthCodeURL(state), http.StatusFound)
}

// CallbackHandler finishes the flow: verifies the state, exchanges the code,
// fetches the identity and issues the session cookie.
func (h *OAuthHandlers) CallbackHandler(w http.ResponseWriter, r *http.Request) {
	stateCookie, err := r.Cookie(stateCookieName)
	if err != nil || stateCookie.Value == "" || r.URL.Query().Get("state") != stateCookie.Value {
		log.Println("level=warn component=oauth outcome=reject reason=state_mismatch")
		http.Redirect(w, r, loginPath, http.StatusFound)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		log.Println("level=warn component=oauth outcome=reject reason=missing_code")
		http.Redirect(w, r, loginPath, http.StatusFound)
		return
	}

	token, err := h.config.Exchange(r.Context(), code)
	if err != nil {
		log.Printf("level=warn component=oauth outcome=reject reason=exchange_failed err=%v", err)
		http.Redirect(w, r, loginPath, http.StatusFound)
		return
	}

	identity, err := h.fetchIdentity(r, token)
	if err != nil {
		log.Printf("level=warn component=oauth outcome=reject reason=identity_fetch_failed err=%v", err)
		http.Redirect(w, r, loginPath, http.StatusFound)
		return
	}

	if err := IssueSessionCookie(w, identity, h.sessionSecret); err != nil {
		log.Printf("level=error component=oauth msg=\"session issue failed\" user_id=%s err=%v", identity.ID, err)
		http.Redirect(w, r, loginPath, http.StatusFound)
		return
	}

	log.Printf("level=info component=oauth outcome=authenticated user_id=%s", identity.ID)
	http.Redirect(w, r, "/profile", http.StatusFound)
}

// LogoutHandler clears the session and returns to the login page.
func (h *OAuthHandlers) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	ClearSessionCookie(w)
	http.Redirect(w, r, loginPath, http.StatusFound)
}

func (h *OAuthHandlers) fetchIdentity(r *http.Request, token *oauth2.Token) (domain.Identity, error) {
	client := h.config.Client(r.Context(), token)
	resp, err := client.Get(discordMeURL)
	if err != nil {
		return domain.Identity{}, err
	}
	defer resp.Body.Close()

	var identity domain.Identity
	if err := json.NewDecoder(resp.Body).Decode(&identity); err != nil {
		return domain.Identity{}, err
	}
	return identity, nil
}

func randomState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
