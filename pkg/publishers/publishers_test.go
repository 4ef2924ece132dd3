package publishers

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRegistryEnabledFilter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "publishers.yaml")
	raw := `
publishers:
  - id: http1
    type: http
    enabled: false
    http:
      url: https://example.com
  - id: http2
    type: http
    enabled: true
    http:
      url: https://example.com/2
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	enabled := reg.Enabled()
	if len(enabled) != 1 || enabled[0].ID != "http2" {
		t.Fatalf("expected only http2 enabled, got %#v", enabled)
	}
}

func TestValidatePublisherConfigRejectsMissingHTTP(t *testing.T) {
	err := validatePublisherConfig(PublisherConfig{
		ID:   "h1",
		Type: TypeHTTP,
	})
	if err == nil {
		t.Fatalf("expected validation error for missing http block")
	}
}

func TestValidatePublisherConfigByType(t *testing.T) {
	cases := []struct {
		name    string
		cfg     PublisherConfig
		wantErr bool
	}{
		{"sns ok", PublisherConfig{ID: "t", Type: TypeSNS, SNS: &SNSPublisherConfig{TopicARN: "arn", Region: "us-east-1"}}, false},
		{"sns missing topic", PublisherConfig{ID: "t", Type: TypeSNS, SNS: &SNSPublisherConfig{Region: "us-east-1"}}, true},
		{"sqs half credentials", PublisherConfig{ID: "q", Type: TypeSQS, SQS: &SQSPublisherConfig{
			QueueURL: "https://q", Region: "us-east-1", Auth: AWSAuth{AccessKeyID: "key"},
		}}, true},
		{"pubsub ok", PublisherConfig{ID: "p", Type: TypeGCPPubSub, GCPPubSub: &GCPPubSubPublisherConfig{ProjectID: "proj", Topic: "reports"}}, false},
		{"pubsub missing project", PublisherConfig{ID: "p", Type: TypeGCPPubSub, GCPPubSub: &GCPPubSubPublisherConfig{Topic: "reports"}}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validatePublisherConfig(sanitizePublisherConfig(tc.cfg))
			if (err != nil) != tc.wantErr {
				t.Fatalf("wantErr=%v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestLoadRegistryJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "publishers.json")
	raw := `{"publishers":[{"id":"topic","type":"SNS","sns":{"topic_arn":" arn:aws:sns:us-east-1:1:reports ","region":"us-east-1"}}]}`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	cfg, ok := reg.ByID("topic")
	if !ok {
		t.Fatalf("publisher topic not found")
	}
	if cfg.Type != TypeSNS || cfg.SNS.TopicARN != "arn:aws:sns:us-east-1:1:reports" {
		t.Fatalf("unexpected config %#v", cfg.SNS)
	}
}
