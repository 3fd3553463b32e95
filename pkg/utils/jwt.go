package utils

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/maheshrc27/postgate/internal/transfer"
	"github.com/maheshrc27/postgate/pkg/logging"
	"go.uber.org/zap"
)

const tokenIssuer = "postgate"

func GenerateToken(secretKey string, operatorID int64, tokenDuration time.Duration) (string, error) {
	now := time.Now()
	claims := transfer.OperatorClaims{
		OperatorID: strconv.FormatInt(operatorID, 10),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(secretKey))
	if err != nil {
		logging.GetLogger().Info("token signing failed", zap.Error(err))
		return "", err
	}

	return signedToken, nil
}

func ValidateToken(secretKey, tokenString string) (*transfer.OperatorClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &transfer.OperatorClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid token signing method")
		}
		return []byte(secretKey), nil
	}, jwt.WithIssuer(tokenIssuer))
	if err != nil {
		logging.GetLogger().Info("token validation failed", zap.Error(err))
		return nil, err
	}

	if claims, ok := token.Claims.(*transfer.OperatorClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}
