package handlers

import (
	"crypto/sha1"
	"fmt"
	"log"
	"net/http"
	"path"
	"strconv"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"golang.org/x/crypto/pbkdf2"
)

const (
	sessionName = "tide-sensor"
	sessionUTC  = "utc"
	// See https://developer.chrome.com/blog/cookie-max-age-expires.
	defaultMaxAge = 60 * 60 * 24 * 400 // 400 days in seconds.
)

func newStore(sessionKey, encryptionKey string) *sessions.CookieStore {
	store := &sessions.CookieStore{
		Codecs: securecookie.CodecsFromPairs(
			[]byte(sessionKey),
			deriveKey(encryptionKey),
		),
		Options: &sessions.Options{
			Path:     "/",
			MaxAge:   defaultMaxAge,
			Secure:   true,
			HttpOnly: true,
		},
	}
	store.MaxAge(defaultMaxAge)
	return store
}

// deriveKey stretches a password into a 32 byte AES key.
func deriveKey(password string) []byte {
	return pbkdf2.Key([]byte(password), []byte{}, 4096, 32, sha1.New)
}

// makeConfigHandler shows and stores the display preference of a browser.
func (srv *server) makeConfigHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, _ := srv.store.Get(r, sessionName)

		if r.Method == http.MethodGet {
			writeJSON(w, http.StatusOK, map[string]bool{
				sessionUTC: srv.format(r).UTC,
			})
			return
		}

		if err := r.ParseForm(); err != nil {
			msg := fmt.Sprintf("Failed to parse form: %v", err)
			log.Println(msg)
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, msg)
			return
		}

		utc, err := strconv.ParseBool(r.PostForm.Get(sessionUTC))
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprintf(w, "Invalid utc value %q", r.PostForm.Get(sessionUTC))
			return
		}
		session.Values[sessionUTC] = utc
		if err := session.Save(r, w); err != nil {
			log.Println("save session err", err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		http.Redirect(w, r, pathJoinPreservePrefix(srv.opts.Prefix, "/"), http.StatusFound)
	})
}

func pathJoinPreservePrefix(prefix string, suffix string) string {
	trimmedPrefix := path.Join(prefix, "")
	result := path.Join(prefix, suffix)
	if result == trimmedPrefix {
		return prefix
	}
	return result
}
