// Package consent implements the cookie-consent gate. Persistence of user
// state is only permitted once the user has explicitly opted in.
package consent

// CookieName is the fixed name of the consent cookie.
const CookieName = "prolist-cookie-consent"

// granted is the only cookie value that counts as consent.
const granted = "true"

// State is the tri-state consent status. Unknown exists only before the
// gate has resolved; within a session a resolved state never returns to it.
type State int

const (
	Unknown State = iota
	Denied
	Granted
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case Granted:
		return "granted"
	case Denied:
		return "denied"
	default:
		return "unknown"
	}
}

// Jar is the minimal cookie access the gate needs. Implementations must
// apply the fixed cookie policy (365-day expiry, path "/", SameSite=Lax)
// on Set.
type Jar interface {
	Get(name string) (string, bool)
	Set(name, value string)
}

// Gate resolves and records the user's consent decision.
type Gate struct {
	jar   Jar
	state State
}

// Resolve inspects the jar for the consent cookie. Only the literal value
// "true" grants consent; absence or any read problem resolves to Denied.
func Resolve(jar Jar) *Gate {
	g := &Gate{jar: jar, state: Denied}
	if v, ok := jar.Get(CookieName); ok && v == granted {
		g.state = Granted
	}
	return g
}

// State returns the resolved consent state.
func (g *Gate) State() State {
	return g.state
}

// GiveConsent records acceptance and writes the consent cookie. There is no
// operation to revoke consent.
func (g *Gate) GiveConsent() {
	g.state = Granted
	g.jar.Set(CookieName, granted)
}
