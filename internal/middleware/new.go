package middleware

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"

	"dealership-chat-router/config"
	"dealership-chat-router/pkg/log"
)

// Middleware bundles the inbound protections for the routing API.
type Middleware struct {
	l        log.Logger
	config   config.SecurityConfig
	limiters *expirable.LRU[string, *rate.Limiter]
}

func New(l log.Logger, cfg config.SecurityConfig) Middleware {
	return Middleware{
		l:        l,
		config:   cfg,
		limiters: expirable.NewLRU[string, *rate.Limiter](10000, nil, 10*time.Minute),
	}
}
