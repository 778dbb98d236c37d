package domain

type User struct {
	ID   string `json:"user_id"`
	Name string `json:"name"`
	// Password is only set while signing up or logging in.
	Password       string   `json:"-"`
	HashedPassword string   `json:"hashed_password"`
	Tickets        []Ticket `json:"tickets_booked"`
}

func (u User) Clone() User {
	out := u
	out.Password = ""
	if u.Tickets != nil {
		out.Tickets = make([]Ticket, len(u.Tickets))
		for i, t := range u.Tickets {
			t.Train = t.Train.Clone()
			out.Tickets[i] = t
		}
	}
	return out
}

// CredentialVerifier turns secrets into digests and checks them.
type CredentialVerifier interface {
	Hash(secret string) (string, error)
	Verify(secret, digest string) bool
}
