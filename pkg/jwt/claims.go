package jwt

import "github.com/golang-jwt/jwt/v5"

// Claims identifies the caller allowed to record scores.
type Claims struct {
	jwt.RegisteredClaims
}

const issuer = "leaderboard-scores"
