package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/openmevzuat/mevzuat/internal/models"
)

// titleInstruction asks for a short Turkish conversation title (max 5 words).
const titleInstruction = "Aşağıdaki sohbet mesajlarına uygun, kısa ve anlamlı bir sohbet başlığı üret. " +
	"Başlık 5 kelimeyi geçmesin ve konuya odaklı olsun. Sadece başlığı döndür.\n\nMesajlar:\n"

// GenerateTitle produces a conversation title from recent user messages with
// a single, non-agentic model call.
func GenerateTitle(ctx context.Context, client Client, messages []string) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("no messages to summarize")
	}
	completion, err := client.Complete(ctx, []models.ConversationTurn{
		{Role: models.RoleUser, Content: titleInstruction + strings.Join(messages, "\n")},
	})
	if err != nil {
		return "", fmt.Errorf("title generation: %w", err)
	}
	return strings.TrimSpace(completion.Text), nil
}
