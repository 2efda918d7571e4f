package sheetimport

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Field is a logical column of a distributor statement
type Field string

const (
	FieldInstallation    Field = "installation"
	FieldPeriod          Field = "period"
	FieldModality        Field = "modality"
	FieldQuota           Field = "quota"
	FieldTariffPost      Field = "tariff_post"
	FieldPreviousBalance Field = "previous_balance"
	FieldExpiredBalance  Field = "expired_balance"
	FieldCurrentBalance  Field = "current_balance"
	FieldConsumption     Field = "consumption"
	FieldGeneration      Field = "generation"
	FieldCompensation    Field = "compensation"
	FieldTransferred     Field = "transferred"
	FieldReceived        Field = "received"
	FieldExpiringAmount  Field = "expiring_amount"
	FieldExpiringPeriod  Field = "expiring_period"
)

// HeaderAliases lists the accepted header names per field, in priority order.
// The first alias with a non-empty value in a row wins.
var HeaderAliases = map[Field][]string{
	FieldInstallation:    {"Instalação", "Instalacao", "Nº Instalação", "Numero da Instalação", "UC", "Unidade Consumidora"},
	FieldPeriod:          {"Período", "Periodo", "Mês/Ano", "Mes/Ano", "Referência", "Referencia"},
	FieldModality:        {"Modalidade", "Modalidade de Compensação"},
	FieldQuota:           {"Quota", "Cota", "Quota (%)", "Percentual da Cota"},
	FieldTariffPost:      {"Posto Tarifário", "Posto Tarifario", "Posto"},
	FieldPreviousBalance: {"Saldo Anterior", "Saldo Anterior (kWh)"},
	FieldExpiredBalance:  {"Saldo Expirado", "Saldo Expirado (kWh)"},
	FieldCurrentBalance:  {"Saldo Atual", "Saldo Atual (kWh)", "Saldo"},
	FieldConsumption:     {"Consumo", "Consumo (kWh)", "Consumo Faturado"},
	FieldGeneration:      {"Geração", "Geracao", "Geração (kWh)", "Energia Gerada"},
	FieldCompensation:    {"Compensação", "Compensacao", "Compensação (kWh)", "Energia Compensada"},
	FieldTransferred:     {"Transferido", "Transferência", "Transferencia", "Energia Transferida"},
	FieldReceived:        {"Recebido", "Recebimento", "Energia Recebida"},
	FieldExpiringAmount:  {"Saldo a Expirar", "Quantidade Saldo a Expirar"},
	FieldExpiringPeriod:  {"Período Saldo a Expirar", "Periodo Saldo a Expirar", "Período a Expirar"},
}

// FoldHeader lower-cases s, strips accents and collapses whitespace
func FoldHeader(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}

// headerIndex maps folded header names to the raw header seen in the sheet
type headerIndex map[string]string

func newHeaderIndex(headers []string) headerIndex {
	idx := make(headerIndex, len(headers))
	for _, h := range headers {
		key := FoldHeader(h)
		if _, ok := idx[key]; !ok {
			idx[key] = h
		}
	}
	return idx
}

// lookup resolves field against row data: exact aliases first, then folded aliases
func (idx headerIndex) lookup(data map[string]string, field Field) string {
	aliases := HeaderAliases[field]
	for _, alias := range aliases {
		if v := data[alias]; v != "" {
			return v
		}
	}
	for _, alias := range aliases {
		if raw, ok := idx[FoldHeader(alias)]; ok {
			if v := data[raw]; v != "" {
				return v
			}
		}
	}
	return ""
}
