// Package menu implements the interactive session: startup loading and the
// numbered menu that drives the inventory and usage services.
package menu

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/mmynk/insumos/internal/config"
	"github.com/mmynk/insumos/internal/console"
	"github.com/mmynk/insumos/internal/models"
	"github.com/mmynk/insumos/internal/service"
	"github.com/mmynk/insumos/internal/storage/jsonfile"
)

// Options tune the controller.
type Options struct {
	// UsageMode is config.UsageModePrompt or config.UsageModeFullStock.
	UsageMode string

	// Plain disables terminal styling.
	Plain bool

	// Now returns the current time; used for the default usage date.
	Now func() time.Time
}

// Controller runs one interactive session.
type Controller struct {
	console   *console.Console
	inventory *service.InventoryService
	usage     *service.UsageService
	opts      Options
	styles    styles

	// session holds the usage registered by the latest "register usage" action.
	session models.Usage
}

// New creates a Controller.
func New(c *console.Console, inventory *service.InventoryService, usage *service.UsageService, opts Options) *Controller {
	if opts.UsageMode == "" {
		opts.UsageMode = config.UsageModePrompt
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Controller{
		console:   c,
		inventory: inventory,
		usage:     usage,
		opts:      opts,
		styles:    newStyles(c.Out(), opts.Plain),
		session:   make(models.Usage),
	}
}

// Start loads the inventory, falling back to the database when the file is
// unusable. An empty database requires at least one supply to be added. The
// resulting inventory is written to the file whatever its source.
func (c *Controller) Start(ctx context.Context) error {
	res, err := c.inventory.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load inventory: %w", err)
	}

	if res.Source == service.SourceDatabase {
		switch {
		case errors.Is(res.FileErr, jsonfile.ErrNotFound):
			c.warn("Arquivo JSON não encontrado. Carregando dados do banco de dados.")
		case errors.Is(res.FileErr, jsonfile.ErrCorrupt):
			c.warn("Erro ao decodificar o arquivo JSON. Carregando dados do banco de dados.")
		default:
			c.warn(fmt.Sprintf("Erro ao ler o arquivo JSON (%v). Carregando dados do banco de dados.", res.FileErr))
		}

		if c.inventory.Len() == 0 {
			c.console.Println("Nenhum insumo encontrado no banco de dados. Por favor, adicione novos insumos.")
			if err := c.seed(ctx); err != nil {
				return err
			}
		}
	}

	if err := c.inventory.SaveFile(); err != nil {
		c.fail("Erro ao salvar o arquivo JSON", err)
	}
	return nil
}

// seed adds supplies until at least one exists and the user declines to add more.
func (c *Controller) seed(ctx context.Context) error {
	for {
		if err := c.addSupply(ctx); err != nil {
			return err
		}
		if c.inventory.Len() == 0 {
			continue
		}

		more, err := c.console.Confirm("Deseja adicionar outro insumo? (s/n): ")
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
	}
}

// Run shows the menu until the exit choice or end of input.
func (c *Controller) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		c.printMenu()
		choice, err := c.console.Line("Escolha uma opção: ")
		if errors.Is(err, io.EOF) {
			c.console.Println("Saindo...")
			return nil
		}
		if err != nil {
			return err
		}

		slog.Debug("Menu choice", "choice", choice)

		if choice == "10" {
			c.console.Println("Saindo...")
			return nil
		}

		err = c.dispatch(ctx, choice)
		if errors.Is(err, io.EOF) {
			c.console.Println("Saindo...")
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (c *Controller) printMenu() {
	c.console.Println()
	c.console.Println(c.styles.title("Menu:"))
	c.console.Println("1. Adicionar Insumo")
	c.console.Println("2. Atualizar Insumo")
	c.console.Println("3. Remover Insumo")
	c.console.Println("4. Calcular Custo Total")
	c.console.Println("5. Apresentar Insumos")
	c.console.Println("6. Salvar Insumos")
	c.console.Println("7. Inserir Insumos no Banco de Dados")
	c.console.Println("8. Registrar Uso de Insumos")
	c.console.Println("9. Gerar Relatório Mensal")
	c.console.Println("10. Sair")
}

// dispatch runs one menu action. Only input errors are returned; service
// failures are reported to the user and the session continues.
func (c *Controller) dispatch(ctx context.Context, choice string) error {
	switch choice {
	case "1":
		return c.addSupply(ctx)
	case "2":
		return c.updateSupply(ctx)
	case "3":
		return c.removeSupply(ctx)
	case "4":
		c.console.Printf("\nCusto total dos insumos: R$%s\n", c.inventory.TotalCost().StringFixed(2))
	case "5":
		renderList(c.console.Out(), c.styles, c.inventory.Items())
	case "6":
		if err := c.inventory.SaveFile(); err != nil {
			c.fail("Erro ao salvar insumos", err)
			return nil
		}
		c.ok("Insumos salvos com sucesso!")
	case "7":
		if err := c.inventory.PushToDatabase(ctx); err != nil {
			c.fail("Erro ao inserir insumos no banco de dados", err)
			return nil
		}
		c.ok("Insumos inseridos no banco de dados com sucesso.")
	case "8":
		return c.registerUsage(ctx)
	case "9":
		renderReport(c.console.Out(), c.styles, c.usage.Report(c.session))
	default:
		c.console.Println(c.styles.err("Opção inválida, tente novamente."))
	}
	return nil
}

func (c *Controller) addSupply(ctx context.Context) error {
	name, err := c.console.Line("Digite o nome do novo insumo: ")
	if err != nil {
		return err
	}
	supply, err := c.readSupply("Digite a quantidade: ", "Digite o preço unitário: ")
	if err != nil {
		return err
	}

	if err := c.inventory.Add(ctx, name, supply); err != nil {
		c.fail(fmt.Sprintf("Erro ao adicionar o insumo '%s'", name), err)
		return nil
	}
	c.ok(fmt.Sprintf("\nInsumo '%s' adicionado com sucesso!", name))
	c.console.Println("Insumo gravado no banco de dados e no arquivo JSON.")
	return nil
}

func (c *Controller) updateSupply(ctx context.Context) error {
	name, ok, err := c.chooseSupply()
	if err != nil || !ok {
		return err
	}
	supply, err := c.readSupply("Digite a nova quantidade: ", "Digite o novo preço unitário: ")
	if err != nil {
		return err
	}

	err = c.inventory.Update(ctx, name, supply)
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.console.Printf("Insumo '%s' não encontrado.\n", name)
	case err != nil:
		c.fail(fmt.Sprintf("Erro ao atualizar o insumo '%s'", name), err)
	default:
		c.ok(fmt.Sprintf("\nInsumo '%s' atualizado com sucesso!", name))
		c.console.Println("Insumo atualizado no banco de dados e no arquivo JSON.")
	}
	return nil
}

func (c *Controller) removeSupply(ctx context.Context) error {
	name, ok, err := c.chooseSupply()
	if err != nil || !ok {
		return err
	}

	err = c.inventory.Remove(ctx, name)
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.console.Printf("Insumo '%s' não encontrado.\n", name)
	case err != nil:
		c.fail(fmt.Sprintf("Erro ao remover o insumo '%s'", name), err)
	default:
		c.ok(fmt.Sprintf("\nInsumo '%s' removido com sucesso!", name))
		c.console.Println("Insumo removido do banco de dados e do arquivo JSON.")
	}
	return nil
}

// chooseSupply shows the numbered pick list. ok is false on cancel or when
// there is nothing to pick.
func (c *Controller) chooseSupply() (string, bool, error) {
	names := c.inventory.Names()
	if len(names) == 0 {
		c.console.Println("Nenhum insumo cadastrado.")
		return "", false, nil
	}

	name, ok, err := c.console.Choose("Escolha um insumo da lista:", "Digite o número correspondente ao insumo: ", names)
	if err != nil {
		return "", false, err
	}
	if !ok {
		c.console.Println(c.styles.muted("Operação cancelada."))
	}
	return name, ok, nil
}

func (c *Controller) readSupply(qtyPrompt, pricePrompt string) (models.Supply, error) {
	qty, err := c.console.NonNegativeInt(qtyPrompt)
	if err != nil {
		return models.Supply{}, err
	}
	price, err := c.console.NonNegativeDecimal(pricePrompt)
	if err != nil {
		return models.Supply{}, err
	}
	return models.Supply{Quantity: qty, UnitPrice: price}, nil
}

// registerUsage asks for a usage date of every supply and, in prompt mode, the
// used quantity. In full-stock mode the whole current quantity counts as used.
func (c *Controller) registerUsage(ctx context.Context) error {
	usage := make(models.Usage)
	for _, item := range c.inventory.Items() {
		date, err := c.console.Date(
			fmt.Sprintf("Digite a data de uso para o insumo '%s' (formato YYYY-MM-DD, vazio para hoje): ", item.Name),
			c.opts.Now(),
		)
		if err != nil {
			return err
		}

		qty := item.Quantity
		if c.opts.UsageMode == config.UsageModePrompt {
			qty, err = c.console.NonNegativeInt(
				fmt.Sprintf("Digite a quantidade usada de '%s' (em estoque: %d): ", item.Name, item.Quantity),
			)
			if err != nil {
				return err
			}
		}
		usage.Add(item.Name, qty, date)
	}

	registered, err := c.usage.Register(ctx, usage)
	if err != nil {
		c.fail("Erro ao registrar uso de insumos", err)
		return nil
	}
	c.session = registered

	c.ok("Uso de insumos registrado com sucesso!")
	c.console.Println("Registros de uso inseridos no banco de dados com sucesso.")
	return nil
}

func (c *Controller) ok(msg string) {
	c.console.Println(c.styles.success(msg))
}

func (c *Controller) warn(msg string) {
	c.console.Println(c.styles.warning(msg))
}

func (c *Controller) fail(prefix string, err error) {
	c.console.Println(c.styles.err(fmt.Sprintf("%s: %v", prefix, err)))
	var wtErr *service.WriteThroughError
	if errors.As(err, &wtErr) {
		c.console.Println("A alteração foi desfeita; o inventário não mudou.")
	}
}
