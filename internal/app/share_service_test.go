package app

import (
	"fmt"
	"testing"
	"time"

	"github.com/form3tech-oss/jwt-go"
)

func parseShareClaims(t *testing.T, tokenString, secret string) jwt.MapClaims {
	t.Helper()

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		t.Fatalf("parse token error: %v", err)
	}
	if !token.Valid {
		t.Fatal("token is invalid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatal("claims are not map claims")
	}
	return claims
}

func TestShareServiceGenerateToken(t *testing.T) {
	secret := "test-secret"
	svc := NewShareService(secret, "roshambo", 2*time.Hour)

	tokenString, err := svc.GenerateToken("user123", SharedStats{
		Rounds:     40,
		Wins:       18,
		Losses:     15,
		Ties:       7,
		BestStreak: 5,
	})
	if err != nil {
		t.Fatalf("generate token error: %v", err)
	}

	claims := parseShareClaims(t, tokenString, secret)
	if claims["iss"] != "roshambo" {
		t.Fatalf("iss = %v, want roshambo", claims["iss"])
	}
	if claims["sub"] != "user123" {
		t.Fatalf("sub = %v, want user123", claims["sub"])
	}

	stats, ok := claims["stats"].(map[string]interface{})
	if !ok {
		t.Fatalf("stats claim is %T, want object", claims["stats"])
	}
	if stats["wins"] != float64(18) {
		t.Fatalf("wins = %v, want 18", stats["wins"])
	}
	if stats["best_streak"] != float64(5) {
		t.Fatalf("best_streak = %v, want 5", stats["best_streak"])
	}

	iat := int64(claims["iat"].(float64))
	exp := int64(claims["exp"].(float64))
	if exp-iat != int64((2 * time.Hour).Seconds()) {
		t.Fatalf("token lifetime = %ds, want 7200", exp-iat)
	}
}

func TestShareServiceDefaultTTL(t *testing.T) {
	svc := NewShareService("secret", "roshambo", 0)
	tokenString, err := svc.GenerateToken("user123", SharedStats{})
	if err != nil {
		t.Fatalf("generate token error: %v", err)
	}

	claims := parseShareClaims(t, tokenString, "secret")
	iat := int64(claims["iat"].(float64))
	exp := int64(claims["exp"].(float64))
	if exp-iat != 3600 {
		t.Fatalf("token lifetime = %ds, want 3600", exp-iat)
	}
}

func TestShareServiceGenerateTokenRequiresUser(t *testing.T) {
	svc := NewShareService("secret", "roshambo", time.Hour)
	if _, err := svc.GenerateToken("", SharedStats{}); err == nil {
		t.Fatal("expected error for empty user")
	}
}

func TestShareServiceGenerateTokenRequiresConfig(t *testing.T) {
	svc := NewShareService("", "roshambo", time.Hour)
	if _, err := svc.GenerateToken("user", SharedStats{}); err == nil {
		t.Fatal("expected error for missing secret")
	}
}
