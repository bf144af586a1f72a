package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/xavierca1/lead-outreach/internal/infra/integration/n8n"
	"github.com/xavierca1/lead-outreach/internal/usecase"
)

// Sends one fake job to the configured n8n webhook so the workflow can be
// checked by hand. Callbacks will 404 because the run does not exist.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using the process environment")
	}

	webhook := os.Getenv("N8N_WEBHOOK_URL")
	if webhook == "" {
		log.Fatal("N8N_WEBHOOK_URL must be set")
	}
	base := os.Getenv("PUBLIC_BASE_URL")
	if base == "" {
		base = "http://localhost:8080"
	}

	token, err := usecase.NewCallbackToken()
	if err != nil {
		log.Fatal(err)
	}

	email := "owner@acme-widgets.io"
	site := "acme-widgets.io"
	job := n8n.JobPayload{
		JobID:            uuid.NewString(),
		Action:           "send_mail",
		UserID:           "sample-user",
		CallbackURL:      base + "/n8n-callback?token=" + token,
		CallbackToken:    token,
		SignatureContent: "-- \nSample Sender",
		Leads: []n8n.Lead{
			{RowID: uuid.NewString(), BusinessEmail: &email, WebsiteURL: &site},
		},
	}

	client := n8n.NewClient(webhook, 15*time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	fmt.Printf("dispatching job %s to %s\n", job.JobID, webhook)
	if err := client.Dispatch(ctx, job); err != nil {
		log.Fatalf("dispatch failed: %v", err)
	}
	fmt.Println("workflow accepted the job")
}
