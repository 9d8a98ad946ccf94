package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/cors"
)

// Cors lets the browser client call the API with its cookies. Outside of
// development only domain and its subdomains are allowed.
func Cors(development bool, domain string) Middleware {
	options := cors.Options{
		AllowOriginFunc: func(origin string) bool {
			if development {
				return true
			}
			u, err := url.Parse(origin)
			if err != nil {
				return false
			}
			host := u.Hostname()
			return host == domain || strings.HasSuffix(host, "."+domain)
		},
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}
	return cors.New(options).Handler
}
