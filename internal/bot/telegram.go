package bot

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"coinrates/internal/domain"
	"coinrates/internal/service"

	tele "gopkg.in/telebot.v3"
)

func StartTelegramBot(token string, rateService *service.RateService) {
	if token == "" {
		log.Println("TELEGRAM_BOT_TOKEN not set, skipping Telegram bot startup")
		return
	}
	pref := tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}
	b, err := tele.NewBot(pref)
	if err != nil {
		log.Fatalf("failed to create Telegram bot: %v", err)
	}

	b.Handle("/ping", func(c tele.Context) error {
		return c.Send("pong")
	})

	b.Handle("/rates", func(c tele.Context) error {
		snapshot, err := rateService.GetSnapshot(context.Background())
		if err != nil {
			return c.Send(fmt.Sprintf("Rates unavailable: %v", err))
		}
		return c.Send(formatRates(snapshot))
	})

	b.Handle("/convert", func(c tele.Context) error {
		amount, from, to, err := parseConvertArgs(c.Args())
		if err != nil {
			return c.Send("Usage: /convert 100 USD TWD")
		}
		result, err := rateService.Convert(context.Background(), amount, from, to)
		if err != nil {
			return c.Send(fmt.Sprintf("Conversion failed: %v", err))
		}
		return c.Send(fmt.Sprintf("%s %s = %s %s",
			strconv.FormatFloat(amount, 'f', -1, 64), from,
			strconv.FormatFloat(result, 'f', -1, 64), to))
	})

	log.Println("Telegram bot started")
	go b.Start()
}

func parseConvertArgs(args []string) (float64, string, string, error) {
	if len(args) != 3 {
		return 0, "", "", fmt.Errorf("expected 3 arguments, got %d", len(args))
	}
	amount, err := strconv.ParseFloat(args[0], 64)
	if err != nil || amount <= 0 {
		return 0, "", "", fmt.Errorf("invalid amount %q", args[0])
	}
	return amount, strings.ToUpper(args[1]), strings.ToUpper(args[2]), nil
}

func formatRates(snapshot *domain.RateSnapshot) string {
	var b strings.Builder
	b.WriteString("Crypto (USD)\n")
	for _, c := range snapshot.Crypto {
		fmt.Fprintf(&b, "%s: $%s (%s%%)\n", c.Symbol, c.PriceUSD, c.Change24h)
	}
	b.WriteString("\nFiat (per USD)\n")
	for _, f := range snapshot.Fiat {
		fmt.Fprintf(&b, "%s: %s\n", f.Code, f.RateToUSD)
	}
	fmt.Fprintf(&b, "\nUpdated: %s", snapshot.LastUpdated)
	return b.String()
}
