package main

import (
	"hash/maphash"
	"math/rand/v2"
	"net/http"

	"github.com/xaslilac/bombas/internal/clock"
	"github.com/xaslilac/bombas/internal/handlers"
	"github.com/xaslilac/bombas/internal/middleware"
	"github.com/xaslilac/bombas/internal/session"
	"github.com/xaslilac/bombas/internal/token"
)

func createRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

func buildHandler() http.Handler {
	clk := clock.New()
	issuer := token.NewIssuer(
		[]byte(cfg.Jwt.Secret), cfg.Jwt.TokenLifetime.Duration, clk,
	)
	game := handlers.NewGame(
		log, session.NewStore(), issuer, createRand, clk,
	)

	mux := http.NewServeMux()
	game.Register(mux)

	return middleware.Wrap(mux,
		middleware.Cors(),
		middleware.Auth(log, issuer),
		middleware.Logging(log),
	)
}
