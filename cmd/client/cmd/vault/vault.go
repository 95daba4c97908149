package vault

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"vera/cmd/client/cmd/types"
	"vera/internal/domain/credential"
)

// VaultCmd - родительская команда для работы с учетными данными
var VaultCmd = &cobra.Command{
	Use:   "vault",
	Short: "Карты, контакты и адреса",
	Long: `Учетные данные хранятся на сервере в документе credentials.json.
Номер карты и CVV шифруются локальным ключом, если он создан командой vera init.`,
}

var ErrUnknownType = errors.New("неизвестный тип записи")

var (
	recordType string
	title      string
	value      string

	cardNumber string
	cardHolder string
	expiry     string
	cvv        string

	address   string
	latitude  string
	longitude string
	label     string

	name     string
	details  string
	imageURI string
)

var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "Показать все записи",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		if err := types.UnlockVault(app); err != nil {
			return err
		}

		items := app.Credentials.Load(cmd.Context())
		if len(items) == 0 {
			fmt.Println("Записей нет")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tТИП\tНАЗВАНИЕ\tДАННЫЕ\tСОЗДАНА")
		for _, c := range items {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", c.ID, c.Type, c.Title, credential.Describe(c), c.CreatedAt.Format("2006-01-02"))
		}
		return w.Flush()
	},
}

var AddCmd = &cobra.Command{
	Use:   "add",
	Short: "Добавить запись",
	Example: `  vera vault add --type card --title Visa --number "4111 1111 1111 1111" --holder "IVAN PETROV" --expiry 12/28 --cvv 123
  vera vault add --type email --title Работа --value me@example.com
  vera vault add --type location --title Дом --address "ул. Ленина, 1" --lat 55.75 --lon 37.61
  vera vault add --type personal --title Мама --name "Анна" --details "день рождения 5 мая" --image ./mom.jpg`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		if err := types.UnlockVault(app); err != nil {
			return err
		}

		payload, err := payloadFromFlags(cmd, credential.Type(recordType), nil)
		if err != nil {
			return err
		}

		current := app.Credentials.Load(cmd.Context())
		item := credential.Credential{Type: credential.Type(recordType), Title: title, Data: payload}
		updated, err := app.Credentials.Add(cmd.Context(), item, current)
		if err != nil {
			return fmt.Errorf("ошибка добавления записи: %w", err)
		}

		types.Success("Запись добавлена (%s)", updated[0].ID)
		return nil
	},
}

var UpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Изменить запись",
	Long:  `Меняются только переданные флаги, остальные поля сохраняют прежние значения.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		if err := types.UnlockVault(app); err != nil {
			return err
		}

		current := app.Credentials.Load(cmd.Context())
		existing, ok := find(current, args[0])
		if !ok {
			return fmt.Errorf("запись %s не найдена", args[0])
		}

		var patch credential.Patch
		if cmd.Flags().Changed("title") {
			patch.Title = &title
		}
		if changedPayload(cmd) {
			if patch.Data, err = payloadFromFlags(cmd, existing.Type, existing.Data); err != nil {
				return err
			}
		}

		if _, err := app.Credentials.Update(cmd.Context(), args[0], patch, current); err != nil {
			return fmt.Errorf("ошибка обновления записи: %w", err)
		}
		types.Success("Запись обновлена")
		return nil
	},
}

var DeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Удалить запись",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		if err := types.UnlockVault(app); err != nil {
			return err
		}

		current := app.Credentials.Load(cmd.Context())
		if _, err := app.Credentials.Delete(cmd.Context(), args[0], current); err != nil {
			return fmt.Errorf("ошибка удаления записи: %w", err)
		}
		types.Success("Запись удалена")
		return nil
	},
}

var PasswdCmd = &cobra.Command{
	Use:   "passwd",
	Short: "Сменить парольную фразу ключа карт",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		old, err := types.ReadSecret("Текущая парольная фраза: ")
		if err != nil {
			return err
		}
		next, err := types.ReadSecret("Новая парольная фраза: ")
		if err != nil {
			return err
		}
		confirm, err := types.ReadSecret("Повторите новую парольную фразу: ")
		if err != nil {
			return err
		}
		if next != confirm {
			return errors.New("парольные фразы не совпадают")
		}

		if err := app.Vault().ChangePassphrase(old, next); err != nil {
			return fmt.Errorf("ошибка смены парольной фразы: %w", err)
		}
		types.Success("Парольная фраза изменена")
		return nil
	},
}

// payloadFromFlags собирает данные записи из флагов поверх base
func payloadFromFlags(cmd *cobra.Command, t credential.Type, base credential.Payload) (credential.Payload, error) {
	changed := cmd.Flags().Changed

	switch t {
	case credential.TypeCard:
		card, _ := base.(credential.Card)
		if changed("number") {
			card.CardNumber = cardNumber
		}
		if changed("holder") {
			card.CardHolder = cardHolder
		}
		if changed("expiry") {
			card.ExpiryDate = expiry
		}
		if changed("cvv") {
			card.CVV = cvv
		}
		return card, nil
	case credential.TypeEmail:
		return credential.Email(value), nil
	case credential.TypePhone:
		return credential.Phone(value), nil
	case credential.TypeLocation:
		loc, _ := base.(credential.Location)
		if changed("address") {
			loc.Address = address
		}
		if changed("label") {
			loc.Label = label
		}
		if changed("lat") {
			v, err := strconv.ParseFloat(latitude, 64)
			if err != nil {
				return nil, fmt.Errorf("некорректная широта: %s", latitude)
			}
			loc.Latitude = v
		}
		if changed("lon") {
			v, err := strconv.ParseFloat(longitude, 64)
			if err != nil {
				return nil, fmt.Errorf("некорректная долгота: %s", longitude)
			}
			loc.Longitude = v
		}
		return loc, nil
	case credential.TypePersonal:
		p, _ := base.(credential.Personal)
		if changed("name") {
			p.Name = name
		}
		if changed("details") {
			p.Details = details
		}
		if changed("image") {
			p.ImageURI = imageURI
		}
		return p, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownType, t)
}

func changedPayload(cmd *cobra.Command) bool {
	for _, f := range []string{"value", "number", "holder", "expiry", "cvv", "address", "lat", "lon", "label", "name", "details", "image"} {
		if cmd.Flags().Changed(f) {
			return true
		}
	}
	return false
}

func find(list []credential.Credential, id string) (credential.Credential, bool) {
	for _, c := range list {
		if c.ID == id {
			return c, true
		}
	}
	return credential.Credential{}, false
}

func init() {
	for _, c := range []*cobra.Command{AddCmd, UpdateCmd} {
		f := c.Flags()
		f.StringVar(&title, "title", "", "название записи")
		f.StringVar(&value, "value", "", "email или телефон")
		f.StringVar(&cardNumber, "number", "", "номер карты")
		f.StringVar(&cardHolder, "holder", "", "держатель карты")
		f.StringVar(&expiry, "expiry", "", "срок действия (MM/YY)")
		f.StringVar(&cvv, "cvv", "", "CVV")
		f.StringVar(&address, "address", "", "адрес")
		f.StringVar(&latitude, "lat", "", "широта")
		f.StringVar(&longitude, "lon", "", "долгота")
		f.StringVar(&label, "label", "", "метка места")
		f.StringVar(&name, "name", "", "имя")
		f.StringVar(&details, "details", "", "подробности")
		f.StringVar(&imageURI, "image", "", "путь к изображению")
	}
	AddCmd.Flags().StringVar(&recordType, "type", "", "тип: card, email, phone, location, personal")
	_ = AddCmd.MarkFlagRequired("type")
	_ = AddCmd.MarkFlagRequired("title")
}
