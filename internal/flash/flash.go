// Package flash carries one-shot user messages across a redirect.
package flash

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"
)

const cookieName = "flash"

// Add queues message for the next rendered page. Messages already
// pending on the request are kept.
func Add(w http.ResponseWriter, r *http.Request, message string) {
	messages := append(read(r), message)

	data, err := json.Marshal(messages)
	if err != nil {
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    base64.RawURLEncoding.EncodeToString(data),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Pop returns the pending messages and clears them.
func Pop(w http.ResponseWriter, r *http.Request) []string {
	messages := read(r)
	if len(messages) == 0 {
		return nil
	}

	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return messages
}

func read(r *http.Request) []string {
	cookie, err := r.Cookie(cookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}

	data, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return nil
	}

	var messages []string
	err = json.Unmarshal(data, &messages)
	if err != nil {
		return nil
	}
	return messages
}
