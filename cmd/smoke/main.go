package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"crisisgrid.org/internal/client"
)

func main() {
	addr := os.Getenv("CRISISGRID_API_ADDR")
	if addr == "" {
		addr = "http://localhost:8080"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	admin := client.New(addr)
	if err := admin.Healthz(ctx); err != nil {
		log.Fatalf("healthz at %s: %v", addr, err)
	}

	email := fmt.Sprintf("smoke-%d@example.com", rand.Int())
	sess, err := admin.Register(ctx, client.RegisterInput{
		Email:     email,
		Password:  "smoke-test-password",
		FirstName: "Smoke",
		LastName:  "Test",
		Role:      "admin",
	})
	if err != nil {
		log.Fatalf("register admin: %v", err)
	}

	zone, err := admin.CreateZone(ctx, client.ZoneInput{
		Name:         "Smoke test zone",
		Type:         "flood",
		GeometryData: `{"type":"Polygon","coordinates":[]}`,
		RiskLevel:    "HIGH",
	})
	if err != nil {
		log.Fatalf("create zone: %v", err)
	}

	wrn, err := admin.CreateWarning(ctx, client.WarningInput{
		HazardZoneID: zone.ID,
		Title:        "Smoke test warning",
		Description:  "Synthetic warning issued by the smoke tool.",
		Level:        "HIGH",
		IssuedBy:     "smoke",
	})
	if err != nil {
		log.Fatalf("create warning: %v", err)
	}

	// Warnings must be readable without credentials.
	public := client.New(addr)
	got, err := public.GetWarning(ctx, wrn.ID)
	if err != nil {
		log.Fatalf("public read warning: %v", err)
	}
	if got.HazardZone == nil || got.HazardZone.Name != zone.Name {
		log.Fatalf("warning missing zone summary: %+v", got)
	}
	if !got.IsActive {
		log.Fatalf("new warning not active: %+v", got)
	}

	if err := admin.DeleteWarning(ctx, wrn.ID); err != nil {
		log.Fatalf("delete warning: %v", err)
	}
	if err := admin.DeleteZone(ctx, zone.ID); err != nil {
		log.Fatalf("delete zone: %v", err)
	}

	fmt.Printf("smoke test passed: user=%s zone=%s warning=%s\n", sess.User.ID, zone.ID, wrn.ID)
}
