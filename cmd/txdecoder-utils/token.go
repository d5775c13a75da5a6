package main

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"

	"github.com/ethpandaops/txdecoder/types"
	"github.com/ethpandaops/txdecoder/utils"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Generate JWT tokens for API authentication",
}

var generateTokenCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a new API token",
	RunE: func(cmd *cobra.Command, args []string) error {
		return generateToken(cmd)
	},
}

var generateSecretCmd = &cobra.Command{
	Use:   "secret",
	Short: "Generate a random secret for token signing",
	RunE: func(cmd *cobra.Command, args []string) error {
		return generateSecret(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.AddCommand(generateTokenCmd)
	tokenCmd.AddCommand(generateSecretCmd)

	generateTokenCmd.Flags().StringP("name", "n", "", "Token name/identifier (required)")
	generateTokenCmd.Flags().UintP("rate-limit", "r", 0, "Rate limit per minute (0 = unlimited)")
	generateTokenCmd.Flags().StringP("duration", "d", "", "Token duration (e.g. '24h', '7d', empty = no expiration)")
	generateTokenCmd.Flags().StringP("secret", "s", "", "JWT signing secret (uses config value if not provided)")
	generateTokenCmd.Flags().StringP("config", "", "", "Path to decoder config file to load secret from")
	generateTokenCmd.Flags().StringSliceP("cors-origins", "c", []string{}, "Allowed CORS origins (e.g. 'https://example.com,https://*.example.com')")
	generateTokenCmd.Flags().StringSliceP("domain-patterns", "p", []string{}, "Decoder instance domain patterns (empty = any domain)")
	generateTokenCmd.MarkFlagRequired("name")
}

func generateToken(cmd *cobra.Command) error {
	name, _ := cmd.Flags().GetString("name")
	rateLimit, _ := cmd.Flags().GetUint("rate-limit")
	duration, _ := cmd.Flags().GetString("duration")
	secret, _ := cmd.Flags().GetString("secret")
	configPath, _ := cmd.Flags().GetString("config")
	corsOrigins, _ := cmd.Flags().GetStringSlice("cors-origins")
	domainPatterns, _ := cmd.Flags().GetStringSlice("domain-patterns")

	if secret == "" && configPath != "" {
		cfg := &types.Config{}
		err := utils.ReadConfig(cfg, configPath)
		if err != nil {
			return fmt.Errorf("error reading config file: %v", err)
		}
		secret = cfg.Api.AuthSecret
	}
	if secret == "" {
		return fmt.Errorf("no JWT secret provided. Use --secret flag, --config flag, or set API_AUTH_SECRET in config")
	}

	now := time.Now()
	claims := &types.APITokenClaims{
		Name:           name,
		RateLimit:      rateLimit,
		CorsOrigins:    corsOrigins,
		DomainPatterns: domainPatterns,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
			Subject:  "api-access",
		},
	}

	if duration != "" {
		parsedDuration, err := parseDurationWithDays(duration)
		if err != nil {
			return fmt.Errorf("invalid duration format: %v (use format like '24h', '7d', '30d')", err)
		}
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(parsedDuration))
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return fmt.Errorf("failed to sign token: %v", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Generated API Token:\n")
	fmt.Fprintf(out, "==================\n")
	fmt.Fprintf(out, "Name: %s\n", name)
	if rateLimit == 0 {
		fmt.Fprintf(out, "Rate Limit: Unlimited\n")
	} else {
		fmt.Fprintf(out, "Rate Limit: %d requests/minute\n", rateLimit)
	}
	if len(corsOrigins) == 0 {
		fmt.Fprintf(out, "CORS Origins: Uses global config\n")
	} else {
		fmt.Fprintf(out, "CORS Origins: %v\n", corsOrigins)
	}
	if len(domainPatterns) == 0 {
		fmt.Fprintf(out, "Domain Patterns: Any instance allowed\n")
	} else {
		fmt.Fprintf(out, "Domain Patterns: %v\n", domainPatterns)
	}
	fmt.Fprintf(out, "Issued At: %s\n", now.Format(time.RFC3339))
	if claims.ExpiresAt != nil {
		fmt.Fprintf(out, "Expires At: %s\n", claims.ExpiresAt.Format(time.RFC3339))
	} else {
		fmt.Fprintf(out, "Expires At: Never\n")
	}
	fmt.Fprintf(out, "\nToken:\n%s\n", tokenString)
	fmt.Fprintf(out, "\nUsage:\n")
	fmt.Fprintf(out, "curl -H \"Authorization: Bearer %s\" -d '{\"tx_hash\":\"0x..\",\"network\":\"eth/mainnet\"}' http://localhost:8080/api/v1/events\n", tokenString)

	return nil
}

func generateSecret(out io.Writer) error {
	secretBytes := make([]byte, 32)
	if _, err := rand.Read(secretBytes); err != nil {
		return fmt.Errorf("error generating secret: %v", err)
	}
	secret := base64.StdEncoding.EncodeToString(secretBytes)

	fmt.Fprintf(out, "Generated JWT Secret:\n")
	fmt.Fprintf(out, "====================\n")
	fmt.Fprintf(out, "Secret: %s\n", secret)
	fmt.Fprintf(out, "\nAdd this to your config.yaml:\n")
	fmt.Fprintf(out, "api:\n")
	fmt.Fprintf(out, "  authSecret: \"%s\"\n", secret)
	fmt.Fprintf(out, "\nOr set environment variable:\n")
	fmt.Fprintf(out, "export API_AUTH_SECRET=\"%s\"\n", secret)
	return nil
}

// parseDurationWithDays extends time.ParseDuration with a "d" suffix.
func parseDurationWithDays(s string) (time.Duration, error) {
	if len(s) > 1 && s[len(s)-1] == 'd' {
		days, err := strconv.Atoi(s[:len(s)-1])
		if err != nil {
			return 0, err
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}
	return time.ParseDuration(s)
}
