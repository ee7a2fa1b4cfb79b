package menu

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/insumos/internal/config"
	"github.com/mmynk/insumos/internal/console"
	"github.com/mmynk/insumos/internal/models"
	"github.com/mmynk/insumos/internal/service"
	"github.com/mmynk/insumos/internal/storage/jsonfile"
	"github.com/mmynk/insumos/internal/storage/sqlite"
)

type harness struct {
	store     *sqlite.SQLiteStore
	file      *jsonfile.Store
	inventory *service.InventoryService
	usage     *service.UsageService
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	dir := t.TempDir()
	store, err := sqlite.New(filepath.Join(dir, "insumos.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	file := jsonfile.New(filepath.Join(dir, "insumos.json"))
	return &harness{
		store:     store,
		file:      file,
		inventory: service.NewInventoryService(store, file, nil),
		usage:     service.NewUsageService(store, nil),
	}
}

func (h *harness) seedFile(t *testing.T, inv models.Inventory) {
	t.Helper()
	require.NoError(t, h.file.Save(inv))
}

// session runs startup and the menu loop over a scripted input.
func (h *harness) session(t *testing.T, mode, input string) string {
	t.Helper()

	var out bytes.Buffer
	c := console.New(strings.NewReader(input), &out)
	ctrl := New(c, h.inventory, h.usage, Options{
		UsageMode: mode,
		Plain:     true,
		Now:       func() time.Time { return time.Date(2024, 5, 20, 9, 0, 0, 0, time.UTC) },
	})

	ctx := context.Background()
	require.NoError(t, ctrl.Start(ctx))
	require.NoError(t, ctrl.Run(ctx))
	return out.String()
}

// supply reads a supply back from the file replica.
func (h *harness) supply(t *testing.T, name string) (models.Supply, bool) {
	t.Helper()
	inv, err := h.file.Load()
	require.NoError(t, err)
	s, ok := inv[name]
	return s, ok
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestStartup(t *testing.T) {
	t.Run("empty database asks for supplies", func(t *testing.T) {
		h := newHarness(t)
		input := "luvas\n10\n0.50\ns\nalcool\n2\n8,90\nn\n10\n"

		out := h.session(t, config.UsageModePrompt, input)

		assert.Contains(t, out, "Arquivo JSON não encontrado. Carregando dados do banco de dados.")
		assert.Contains(t, out, "Nenhum insumo encontrado no banco de dados. Por favor, adicione novos insumos.")
		assert.Contains(t, out, "Insumo 'luvas' adicionado com sucesso!")
		assert.Contains(t, out, "Insumo 'alcool' adicionado com sucesso!")
		assert.Contains(t, out, "Saindo...")

		saved, err := h.file.Load()
		require.NoError(t, err)
		assert.Equal(t, []string{"alcool", "luvas"}, saved.Names())

		rows, err := h.store.LoadSupplies(context.Background())
		require.NoError(t, err)
		assert.True(t, rows["alcool"].UnitPrice.Equal(price("8.90")))
	})

	t.Run("database rows are mirrored to the file", func(t *testing.T) {
		h := newHarness(t)
		require.NoError(t, h.store.ReplaceSupplies(context.Background(), models.Inventory{
			"papel": {Quantity: 4, UnitPrice: price("12.00")},
		}))

		out := h.session(t, config.UsageModePrompt, "10\n")

		assert.Contains(t, out, "Arquivo JSON não encontrado.")
		assert.NotContains(t, out, "Nenhum insumo encontrado")

		saved, err := h.file.Load()
		require.NoError(t, err)
		assert.Equal(t, int64(4), saved["papel"].Quantity)
	})

	t.Run("corrupt file falls back to database", func(t *testing.T) {
		h := newHarness(t)
		require.NoError(t, os.WriteFile(h.file.Path, []byte("{not json"), 0o644))
		require.NoError(t, h.store.ReplaceSupplies(context.Background(), models.Inventory{
			"papel": {Quantity: 1, UnitPrice: price("1")},
		}))

		out := h.session(t, config.UsageModePrompt, "10\n")
		assert.Contains(t, out, "Erro ao decodificar o arquivo JSON. Carregando dados do banco de dados.")
	})

	t.Run("valid file is used silently", func(t *testing.T) {
		h := newHarness(t)
		h.seedFile(t, models.Inventory{"luvas": {Quantity: 1, UnitPrice: price("2")}})

		out := h.session(t, config.UsageModePrompt, "10\n")
		assert.NotContains(t, out, "Carregando dados do banco de dados")
	})
}

func TestMenuActions(t *testing.T) {
	t.Run("total cost and listing", func(t *testing.T) {
		h := newHarness(t)
		h.seedFile(t, models.Inventory{
			"luvas":      {Quantity: 10, UnitPrice: price("0.5")},
			"ALCOOL gel": {Quantity: 2, UnitPrice: price("8.9")},
		})

		out := h.session(t, config.UsageModePrompt, "4\n5\n10\n")

		assert.Contains(t, out, "Custo total dos insumos: R$22.80")
		assert.Contains(t, out, "Lista de Insumos:")
		assert.Contains(t, out, "Alcool gel: 2 unidades a R$8.90 cada")
		assert.Contains(t, out, "Luvas: 10 unidades a R$0.50 cada")
		assert.Less(t, strings.Index(out, "Alcool gel:"), strings.Index(out, "Luvas:"))
	})

	t.Run("invalid choice", func(t *testing.T) {
		h := newHarness(t)
		h.seedFile(t, models.Inventory{"luvas": {Quantity: 1}})

		out := h.session(t, config.UsageModePrompt, "99\nabc\n10\n")
		assert.Equal(t, 2, strings.Count(out, "Opção inválida, tente novamente."))
	})

	t.Run("update through the pick list", func(t *testing.T) {
		h := newHarness(t)
		h.seedFile(t, models.Inventory{
			"alcool": {Quantity: 1, UnitPrice: price("1")},
			"luvas":  {Quantity: 1, UnitPrice: price("1")},
		})

		// second entry in the sorted list is "luvas"
		out := h.session(t, config.UsageModePrompt, "2\n2\n7\n3.25\n10\n")

		assert.Contains(t, out, "Escolha um insumo da lista:")
		assert.Contains(t, out, "2. luvas")
		assert.Contains(t, out, "Insumo 'luvas' atualizado com sucesso!")

		supply, ok := h.supply(t, "luvas")
		require.True(t, ok)
		assert.Equal(t, int64(7), supply.Quantity)

		rows, err := h.store.LoadSupplies(context.Background())
		require.NoError(t, err)
		assert.True(t, rows["luvas"].UnitPrice.Equal(price("3.25")))
	})

	t.Run("remove and cancel", func(t *testing.T) {
		h := newHarness(t)
		h.seedFile(t, models.Inventory{
			"alcool": {Quantity: 1},
			"luvas":  {Quantity: 1},
		})

		out := h.session(t, config.UsageModePrompt, "3\n0\n3\n1\n10\n")

		assert.Contains(t, out, "Operação cancelada.")
		assert.Contains(t, out, "Insumo 'alcool' removido com sucesso!")
		assert.Equal(t, []string{"luvas"}, h.inventory.Names())

		saved, err := h.file.Load()
		require.NoError(t, err)
		assert.NotContains(t, saved, "alcool")
	})

	t.Run("pick list on empty inventory", func(t *testing.T) {
		h := newHarness(t)
		h.seedFile(t, models.Inventory{})

		out := h.session(t, config.UsageModePrompt, "2\n10\n")
		assert.Contains(t, out, "Nenhum insumo cadastrado.")
	})

	t.Run("add replaces an existing name", func(t *testing.T) {
		h := newHarness(t)
		h.seedFile(t, models.Inventory{"luvas": {Quantity: 1, UnitPrice: price("1")}})

		h.session(t, config.UsageModePrompt, "1\nluvas\n-1\n5\n2\n10\n")

		supply, _ := h.supply(t, "luvas")
		assert.Equal(t, int64(5), supply.Quantity)
		assert.Equal(t, 1, h.inventory.Len())
	})

	t.Run("save and push", func(t *testing.T) {
		h := newHarness(t)
		h.seedFile(t, models.Inventory{"luvas": {Quantity: 3, UnitPrice: price("1.5")}})

		out := h.session(t, config.UsageModePrompt, "6\n7\n10\n")

		assert.Contains(t, out, "Insumos salvos com sucesso!")
		assert.Contains(t, out, "Insumos inseridos no banco de dados com sucesso.")

		rows, err := h.store.LoadSupplies(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int64(3), rows["luvas"].Quantity)
	})

	t.Run("end of input exits", func(t *testing.T) {
		h := newHarness(t)
		h.seedFile(t, models.Inventory{"luvas": {Quantity: 1}})

		out := h.session(t, config.UsageModePrompt, "1\nnovo\n")
		assert.True(t, strings.HasSuffix(strings.TrimSpace(out), "Saindo..."))
		assert.Equal(t, 1, h.inventory.Len())
	})
}

func TestUsageRegistration(t *testing.T) {
	inv := models.Inventory{
		"alcool": {Quantity: 5, UnitPrice: price("3")},
		"luvas":  {Quantity: 10, UnitPrice: price("1")},
	}

	t.Run("report before registering", func(t *testing.T) {
		h := newHarness(t)
		h.seedFile(t, inv)

		out := h.session(t, config.UsageModePrompt, "9\n10\n")
		assert.Contains(t, out, "Relatório de Uso de Insumos por Mês:")
		assert.Contains(t, out, "Nenhum uso registrado.")
		assert.NotContains(t, out, "Total geral")
	})

	t.Run("prompt mode asks for quantities", func(t *testing.T) {
		h := newHarness(t)
		h.seedFile(t, inv)

		// alcool: bad date first, then 2024-01-10 with 3 used; luvas: default date, 2 used
		input := "8\n2024-13-01\n2024-01-10\n3\n\nx\n2\n9\n10\n"
		out := h.session(t, config.UsageModePrompt, input)

		assert.Contains(t, out, "Erro: data inválida. Use o formato YYYY-MM-DD.")
		assert.Contains(t, out, "Uso de insumos registrado com sucesso!")
		assert.Contains(t, out, "Mês: 2024-01, Total de Insumos Usados: 3 unidades")
		assert.Contains(t, out, "Mês: 2024-05, Total de Insumos Usados: 2 unidades")

		records, err := h.store.ListUsage(context.Background())
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, records[0].BatchID, records[1].BatchID)

		// usage does not change stock
		supply, _ := h.supply(t, "luvas")
		assert.Equal(t, int64(10), supply.Quantity)
	})

	t.Run("full stock mode counts every unit", func(t *testing.T) {
		h := newHarness(t)
		h.seedFile(t, inv)

		out := h.session(t, config.UsageModeFullStock, "8\n2024-01-05\n2024-01-20\n9\n10\n")

		assert.NotContains(t, out, "quantidade usada")
		assert.Contains(t, out, "Mês: 2024-01, Total de Insumos Usados: 15 unidades")
	})

	t.Run("supply with an empty name is registered", func(t *testing.T) {
		h := newHarness(t)
		h.seedFile(t, models.Inventory{
			"":      {Quantity: 3, UnitPrice: price("1")},
			"luvas": {Quantity: 2, UnitPrice: price("1")},
		})

		out := h.session(t, config.UsageModeFullStock, "8\n2024-01-05\n2024-01-06\n9\n10\n")

		assert.NotContains(t, out, "Erro ao registrar uso de insumos")
		assert.Contains(t, out, "Uso de insumos registrado com sucesso!")
		assert.Contains(t, out, "Mês: 2024-01, Total de Insumos Usados: 5 unidades")

		records, err := h.store.ListUsage(context.Background())
		require.NoError(t, err)
		assert.Len(t, records, 2)
	})

	t.Run("report shows only the latest registration", func(t *testing.T) {
		h := newHarness(t)
		h.seedFile(t, models.Inventory{"luvas": {Quantity: 10}})

		input := "8\n2024-01-01\n4\n8\n2024-02-01\n1\n9\n10\n"
		out := h.session(t, config.UsageModePrompt, input)

		assert.Contains(t, out, "Mês: 2024-02, Total de Insumos Usados: 1 unidades")
		assert.NotContains(t, out, "Mês: 2024-01")

		history, err := h.usage.History(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []models.MonthlyTotal{
			{Month: "2024-01", Quantity: 4},
			{Month: "2024-02", Quantity: 1},
		}, history)
	})
}

func TestRenderReport(t *testing.T) {
	var out bytes.Buffer
	RenderReport(&out, []models.MonthlyTotal{{Month: "2024-01", Quantity: 8}, {Month: "2024-02", Quantity: 2}}, true)

	want := "\nRelatório de Uso de Insumos por Mês:\n" +
		reportRule + "\n" +
		"Mês: 2024-01, Total de Insumos Usados: 8 unidades\n" +
		"Mês: 2024-02, Total de Insumos Usados: 2 unidades\n" +
		"Total geral: 10 unidades\n" +
		reportRule + "\n"
	assert.Equal(t, want, out.String())
}

func TestCapitalize(t *testing.T) {
	tests := map[string]string{
		"":           "",
		"luvas":      "Luvas",
		"ÁLCOOL GEL": "Álcool gel",
		"1 caneta":   "1 caneta",
	}
	for in, want := range tests {
		assert.Equal(t, want, capitalize(in), "capitalize(%q)", in)
	}
}
