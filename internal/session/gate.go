package session

import (
	"context"
	"log"
	"sync"

	"github.com/helaidi0704/pharmaconnect-frontend/internal/api"
	"github.com/helaidi0704/pharmaconnect-frontend/internal/models"
)

const (
	StateAnonymous      = "anonymous"
	StateAuthenticating = "authenticating"
	StateAuthenticated  = "authenticated"
)

// Gate owns the current identity and token lifecycle. Watchers (the realtime
// session, route guards) are told about every state change so a login can
// bring the messaging connection up and a logout can tear it down.
type Gate struct {
	mu       sync.Mutex
	state    string
	user     models.User
	client   *api.Client
	store    *Store
	watchers []func(state string, user models.User)
}

func NewGate(client *api.Client, store *Store) *Gate {
	g := &Gate{
		state:  StateAnonymous,
		client: client,
		store:  store,
	}

	client.OnTokens(func(accessToken, refreshToken string) {
		if accessToken == "" && refreshToken == "" {
			if err := store.Clear(); err != nil {
				log.Printf("session clear error: %v", err)
			}
			return
		}
		if err := store.SaveTokens(TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}); err != nil {
			log.Printf("session save error: %v", err)
		}
	})
	client.OnAuthExpired(func() {
		g.forceLogout()
	})

	return g
}

func (g *Gate) State() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

func (g *Gate) Authenticated() bool {
	return g.State() == StateAuthenticated
}

func (g *Gate) User() (models.User, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.user, g.state == StateAuthenticated
}

// Watch registers a state-change callback. Callbacks run outside the gate
// lock, in registration order.
func (g *Gate) Watch(fn func(state string, user models.User)) {
	g.mu.Lock()
	g.watchers = append(g.watchers, fn)
	g.mu.Unlock()
}

func (g *Gate) Login(ctx context.Context, email, password string) (models.User, error) {
	g.transition(StateAuthenticating, models.User{})

	result, err := g.client.Login(ctx, api.Credentials{Email: email, Password: password})
	if err != nil {
		g.transition(StateAnonymous, models.User{})
		return models.User{}, err
	}

	g.finishLogin(result)
	return result.User, nil
}

func (g *Gate) Register(ctx context.Context, input api.RegisterInput) (models.User, error) {
	g.transition(StateAuthenticating, models.User{})

	result, err := g.client.Register(ctx, input)
	if err != nil {
		g.transition(StateAnonymous, models.User{})
		return models.User{}, err
	}

	g.finishLogin(result)
	return result.User, nil
}

func (g *Gate) finishLogin(result api.AuthResult) {
	tokens := TokenPair{AccessToken: result.AccessToken, RefreshToken: result.RefreshToken}
	if err := g.store.Save(tokens, result.User); err != nil {
		log.Printf("session save error: %v", err)
	}
	g.transition(StateAuthenticated, result.User)
}

// Logout revokes the backend session on a best-effort basis; local state is
// always cleared.
func (g *Gate) Logout(ctx context.Context) {
	if err := g.client.Logout(ctx); err != nil {
		log.Printf("logout request error: %v", err)
	}
	g.transition(StateAnonymous, models.User{})
}

// Resume restores a persisted session. The tokens are trusted until the
// first backend call proves otherwise; a stale pair ends in a forced logout
// through the usual refresh path.
func (g *Gate) Resume() (models.User, bool) {
	tokens, user, ok, err := g.store.Load()
	if err != nil {
		log.Printf("session load error: %v", err)
		return models.User{}, false
	}
	if !ok {
		return models.User{}, false
	}

	g.client.SetTokens(tokens.AccessToken, tokens.RefreshToken)
	g.transition(StateAuthenticated, user)
	return user, true
}

func (g *Gate) forceLogout() {
	if err := g.store.Clear(); err != nil {
		log.Printf("session clear error: %v", err)
	}
	g.transition(StateAnonymous, models.User{})
}

func (g *Gate) transition(state string, user models.User) {
	g.mu.Lock()
	if g.state == state && g.user.UserID == user.UserID {
		g.mu.Unlock()
		return
	}
	g.state = state
	g.user = user
	watchers := make([]func(string, models.User), len(g.watchers))
	copy(watchers, g.watchers)
	g.mu.Unlock()

	for _, fn := range watchers {
		fn(state, user)
	}
}
