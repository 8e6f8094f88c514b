package auth

import (
	"bufio"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/gin-gonic/gin"
)

// cookieWriter commits the session and sets its cookie right before the
// first byte of the response goes out.
type cookieWriter struct {
	gin.ResponseWriter
	sessions *SessionManager
	req      *http.Request
	done     bool
}

func (w *cookieWriter) flushCookie() {
	if w.done {
		return
	}
	w.done = true

	ctx := w.req.Context()
	status := w.sessions.Status(ctx)
	if status == scs.Destroyed {
		w.sessions.WriteSessionCookie(ctx, w.ResponseWriter, "", time.Time{})
		return
	}
	if status != scs.Modified {
		return
	}

	token, expiry, err := w.sessions.Commit(ctx)
	if err != nil {
		log.Printf("ERROR: failed to commit session: %v", err)
		return
	}
	w.sessions.WriteSessionCookie(ctx, w.ResponseWriter, token, expiry)
}

func (w *cookieWriter) WriteHeader(code int) {
	w.flushCookie()
	w.ResponseWriter.WriteHeader(code)
}

func (w *cookieWriter) WriteHeaderNow() {
	w.flushCookie()
	w.ResponseWriter.WriteHeaderNow()
}

func (w *cookieWriter) Write(b []byte) (int, error) {
	w.flushCookie()
	return w.ResponseWriter.Write(b)
}

func (w *cookieWriter) WriteString(s string) (int, error) {
	w.flushCookie()
	return w.ResponseWriter.WriteString(s)
}

func (w *cookieWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	return w.ResponseWriter.Hijack()
}

// SessionLoadSave loads the session named by the request cookie into the
// request context and writes the cookie back with the response. Routes that
// read or change the session must run after it.
func (sm *SessionManager) SessionLoadSave() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ""
		if cookie, err := c.Request.Cookie(sm.Cookie.Name); err == nil {
			token = cookie.Value
		}

		ctx, err := sm.Load(c.Request.Context(), token)
		if err != nil {
			log.Printf("ERROR: failed to load session: %v", err)
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		c.Request = c.Request.WithContext(ctx)

		w := &cookieWriter{ResponseWriter: c.Writer, sessions: sm, req: c.Request}
		c.Writer = w
		c.Next()

		// Handlers that never wrote a body still get their cookie.
		w.flushCookie()
	}
}
