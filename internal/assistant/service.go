// Package assistant answers investment questions through a chat provider,
// falling back to a fixed help text whenever the provider cannot be used.
package assistant

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"estatify/server/internal/models"
)

// Number of listings summarised in the system prompt
const promptSampleSize = 10

const FallbackResponse = `As a real estate investment assistant, I can help you with various questions:

- Property valuations based on ROI and yield
- Location analyses and market trends
- Risk assessment of investments
- Comparisons of different investment opportunities

Please ask your specific question, and I will provide you with a well-founded answer based on the available data.

(Note: For full AI functionality, please configure your OpenAI API key in the .env file)`

// ListingSampler returns a small sample of stored listings
type ListingSampler interface {
	SampleListings(limit int) ([]models.Listing, error)
}

type Reply struct {
	Response string `json:"response"`
	Usage    *Usage `json:"usage,omitempty"`
	Fallback bool   `json:"fallback,omitempty"`
}

type Service struct {
	provider Provider
	listings ListingSampler
	timeout  time.Duration
	logger   *logrus.Logger
}

func NewService(provider Provider, listings ListingSampler, timeout time.Duration, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}

	return &Service{
		provider: provider,
		listings: listings,
		timeout:  timeout,
		logger:   logger,
	}
}

// Chat answers a question with the stored listings as context. It never
// fails: any error is logged and answered with the fallback text.
func (s *Service) Chat(ctx context.Context, message string) Reply {
	sample, err := s.listings.SampleListings(promptSampleSize)
	if err != nil {
		s.logger.WithError(err).Error("Failed to load listings for assistant context")
		return fallback()
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	completion, err := s.provider.Complete(ctx, BuildSystemPrompt(sample), message)
	if err != nil {
		s.logger.WithError(err).Warn("Chat provider unavailable, using fallback response")
		return fallback()
	}

	return Reply{Response: completion.Text, Usage: completion.Usage}
}

func fallback() Reply {
	return Reply{Response: FallbackResponse, Fallback: true}
}

// BuildSystemPrompt describes the assistant role and summarises the listing
// sample. Unknown ROI counts as zero in the average.
func BuildSystemPrompt(listings []models.Listing) string {
	avgPrice, avgROI := "n/a", "n/a"
	if len(listings) > 0 {
		var priceSum, roiSum float64
		for i := range listings {
			priceSum += listings[i].Price
			roiSum += listings[i].ROIValue()
		}
		n := float64(len(listings))
		avgPrice = fmt.Sprintf("€%.2f", priceSum/n)
		avgROI = fmt.Sprintf("%.2f%%", roiSum/n)
	}

	var b strings.Builder
	b.WriteString("You are an AI assistant for real estate investments. ")
	b.WriteString("You help investors make the best property investment decisions.\n\n")
	b.WriteString("Context:\n")
	fmt.Fprintf(&b, "- Number of properties in database: %d\n", len(listings))
	fmt.Fprintf(&b, "- Average price: %s\n", avgPrice)
	fmt.Fprintf(&b, "- Average ROI: %s\n\n", avgROI)
	b.WriteString("You provide well-founded recommendations based on:\n")
	b.WriteString("- ROI (Return on Investment)\n")
	b.WriteString("- Rental yield\n")
	b.WriteString("- Location analysis\n")
	b.WriteString("- Market trends\n")
	b.WriteString("- Risk assessment\n\n")
	b.WriteString("Answer precisely, professionally, and in English.")
	return b.String()
}
