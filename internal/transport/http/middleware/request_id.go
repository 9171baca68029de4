package middleware

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
)

// RequestID обеспечивает наличие X-Request-Id:
//  1. читает заголовок X-Request-Id, если есть;
//  2. иначе генерирует криптографически стойкий hex id (32 символа);
//  3. кладёт id в Response Header и Request Header
//     (его читают Logging и apierrors.WriteError).
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get("X-Request-Id")
			if id == "" {
				id = genID()
				// добавим в запрос — чтобы apierrors.WriteError мог его забрать.
				r.Header.Set("X-Request-Id", id)
			}
			w.Header().Set("X-Request-Id", id)

			next.ServeHTTP(w, r)
		})
	}
}

func genID() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
