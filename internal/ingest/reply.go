package ingest

import (
	"errors"
	"fmt"
	"strings"

	"fjacquet/chatledger/internal/categorizer"
	"fjacquet/chatledger/internal/models"
	"fjacquet/chatledger/internal/parsererror"
)

// Fixed replies.
const (
	UnauthorizedReply = "🚫 У вас нет доступа к этому боту.\n" +
		"Этот бот предназначен только для авторизованных пользователей."
	StoreFailureReply = "❌ Ошибка при сохранении транзакции.\n" +
		"Попробуйте позже или обратитесь к администратору."
)

const replyDateFormat = "02.01.2006 15:04"

var examples = []string{
	"потратил 500 руб на продукты",
	"получил зарплату 25000 руб",
	"купил кофе 150р",
	"такси 300 рублей",
}

func renderUnclear(p models.ParsedTransaction) string {
	var b strings.Builder
	b.WriteString("🤔 Не совсем понял ваше сообщение.\n\n")
	if !p.HasAmount() {
		b.WriteString("💰 Не удалось определить сумму. ")
	}
	if !p.HasDirection() {
		b.WriteString("📊 Не удалось понять, это доход или расход. ")
	}
	b.WriteString("\n\n💡 Примеры правильных сообщений:\n")
	for _, e := range examples {
		fmt.Fprintf(&b, "• \"%s\"\n", e)
	}
	b.WriteString("\nПопробуйте написать четче, указав сумму и описание.")
	return b.String()
}

func renderConfirmation(p models.ParsedTransaction, suggestions []categorizer.Suggestion) string {
	var b strings.Builder
	b.WriteString("❓ Правильно ли я понял?\n\n")
	if p.HasAmount() {
		fmt.Fprintf(&b, "💰 Сумма: %s\n", models.FormatAmount(p.Amount.Decimal, p.Currency))
	}
	if p.HasDirection() {
		fmt.Fprintf(&b, "📊 Тип: %s\n", p.Direction.Label())
	}
	if p.HasCategory() {
		fmt.Fprintf(&b, "🏷️ Категория: %s\n", p.Category)
	}
	if p.Description != "" {
		fmt.Fprintf(&b, "📝 Описание: %s\n", p.Description)
	}

	var others []string
	for _, s := range suggestions {
		if s.Category != p.Category {
			others = append(others, s.Category)
		}
	}
	if len(others) > 0 {
		fmt.Fprintf(&b, "🔀 Другие варианты: %s\n", strings.Join(others, ", "))
	}

	b.WriteString("\n💡 Если неправильно, попробуйте написать четче.")
	b.WriteString("\nЕсли правильно, напишите \"да\" или название категории.")
	return b.String()
}

func renderInvalid(errs []error) string {
	var b strings.Builder
	b.WriteString("❌ Ошибка в данных транзакции:")
	for _, err := range errs {
		reason := err.Error()
		var vErr *parsererror.ValidationError
		if errors.As(err, &vErr) {
			reason = vErr.Reason
		}
		b.WriteString("\n• ")
		b.WriteString(reason)
	}
	return b.String()
}

func renderRecorded(tx models.Transaction) string {
	var b strings.Builder
	b.WriteString("✅ Транзакция записана!\n\n")
	fmt.Fprintf(&b, "%s %s %s\n", tx.TypeEmoji(), models.CategoryEmoji(tx.Category), tx.FormattedAmountWithSign())
	fmt.Fprintf(&b, "🏷️ Категория: %s\n", tx.Category)
	if tx.Description != "" {
		fmt.Fprintf(&b, "📝 Описание: %s\n", tx.Description)
	}
	fmt.Fprintf(&b, "📅 Дата: %s", tx.Date.Format(replyDateFormat))
	if tx.Row > 0 {
		fmt.Fprintf(&b, "\n📊 Строка в таблице: %d", tx.Row)
	}
	return b.String()
}
