package pulse

import "testing"

func TestDecideTitle(t *testing.T) {
	tests := []struct {
		name      string
		suggested string
		firstUser string
		current   string
		want      string
	}{
		{
			name:      "blank suggestion keeps current",
			suggested: "   ",
			firstUser: "Quantos clientes temos?",
			current:   "Nova conversa",
			want:      "Nova conversa",
		},
		{
			name:      "echo of first message keeps current",
			suggested: "Quantos clientes temos?",
			firstUser: "quantos clientes temos?",
			current:   "Nova conversa",
			want:      "Nova conversa",
		},
		{
			name:      "suggestion contained in first message keeps current",
			suggested: "clientes",
			firstUser: "Quantos clientes temos?",
			current:   "Nova conversa",
			want:      "Nova conversa",
		},
		{
			name:      "first message contained in suggestion keeps current",
			suggested: "Oi, tudo bem com você?",
			firstUser: "Oi",
			current:   "Nova conversa",
			want:      "Nova conversa",
		},
		{
			name:      "distinct suggestion adopted",
			suggested: "Resumo de vendas do trimestre",
			firstUser: "Como foram as vendas de julho a setembro?",
			current:   "Nova conversa",
			want:      "Resumo de vendas do trimestre",
		},
		{
			name:      "wrapping quotes stripped before comparison",
			suggested: `"Vendas Q3"`,
			firstUser: "Como foram as vendas no último trimestre?",
			current:   "Nova conversa",
			want:      "Vendas Q3",
		},
		{
			name:      "terminal punctuation stripped",
			suggested: "Planejamento financeiro.",
			firstUser: "Preciso organizar as contas",
			current:   "Nova conversa",
			want:      "Planejamento financeiro",
		},
		{
			name:      "no first message accepts any suggestion",
			suggested: "Oi",
			firstUser: "",
			current:   "Nova conversa",
			want:      "Oi",
		},
		{
			name:      "case-insensitive echo keeps current",
			suggested: "VENDAS Q3",
			firstUser: "vendas q3",
			current:   "Relatório",
			want:      "Relatório",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecideTitle(tt.suggested, tt.firstUser, tt.current)
			if got != tt.want {
				t.Errorf("DecideTitle(%q, %q, %q) = %q, want %q",
					tt.suggested, tt.firstUser, tt.current, got, tt.want)
			}
		})
	}
}

func TestSeedTitle(t *testing.T) {
	if got := SeedTitle(""); got != PlaceholderTitle {
		t.Errorf("empty first message: got %q, want %q", got, PlaceholderTitle)
	}
	if got := SeedTitle("Oi"); got != "Oi" {
		t.Errorf("short message: got %q, want %q", got, "Oi")
	}
	long := "Preciso de um relatório completo das vendas deste ano"
	got := SeedTitle(long)
	if len([]rune(got)) != 30 {
		t.Errorf("long message truncation: got %d runes, want 30", len([]rune(got)))
	}
	if got != string([]rune(long)[:30]) {
		t.Errorf("truncation content mismatch: got %q", got)
	}
}

func TestFirstUserContent(t *testing.T) {
	msgs := []Message{
		{Role: RoleAssistant, Content: "olá"},
		{Role: RoleUser, Content: "primeira"},
		{Role: RoleUser, Content: "segunda"},
	}
	if got := FirstUserContent(msgs); got != "primeira" {
		t.Errorf("got %q, want %q", got, "primeira")
	}
	if got := FirstUserContent(nil); got != "" {
		t.Errorf("empty transcript: got %q, want empty", got)
	}
}
