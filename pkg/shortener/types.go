package shortener

import "time"

// Credentials are the username/password pair accepted by /login and /signup.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse is returned by a successful login or signup.
type AuthResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	UserID  string `json:"user_id"`
}

type shortenRequest struct {
	LongURL string `json:"long_url"`
}

// ShortenResponse is returned by both shorten endpoints.
type ShortenResponse struct {
	Message   string `json:"message"`
	ShortURL  string `json:"short_url"`
	ShortCode string `json:"short_code"`
	// QRCode is a data: URI with a PNG of the short URL.
	QRCode string `json:"qr_code"`
}

// Link is one entry of the user's history.
type Link struct {
	ShortCode string    `json:"short_code"`
	ShortURL  string    `json:"short_url,omitempty"`
	LongURL   string    `json:"long_url"`
	CreatedAt Timestamp `json:"created_at"`
	Clicks    int       `json:"clicks"`
}

type urlsResponse struct {
	Message string `json:"message"`
	URLs    []Link `json:"urls"`
}

// Stats summarises clicks on the user's links.
type Stats struct {
	Message            string `json:"message"`
	TotalURLsShortened int    `json:"total_urls_shortened"`
	UniqueClicks       int    `json:"unique_clicks"`
	ReturningVisitors  int    `json:"returning_visitors"`
	GeoLocation        string `json:"geo_location"`
}

type pingResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Timestamp accepts the backend's ISO-8601 timestamps, which carry no zone
// and are in UTC.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" || s == `""` {
		t.Time = time.Time{}
		return nil
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return &time.ParseError{Value: s, Message: ": timestamp must be a JSON string"}
	}
	s = s[1 : len(s)-1]

	var lastErr error
	for _, layout := range timestampLayouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			t.Time = parsed.UTC()
			return nil
		}
		lastErr = err
	}
	return lastErr
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + t.UTC().Format(time.RFC3339) + `"`), nil
}
