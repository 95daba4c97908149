package person

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"vera/cmd/client/cmd/types"
	"vera/internal/domain/person"
)

// PersonCmd - родительская команда для близких людей
var PersonCmd = &cobra.Command{
	Use:     "person",
	Aliases: []string{"persons"},
	Short:   "Близкие люди",
}

var (
	name    string
	details string
	image   string
	output  string
)

var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "Показать людей",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		persons := app.Persons.Load(cmd.Context())
		if len(persons) == 0 {
			fmt.Println("Список пуст")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tИМЯ\tПОДРОБНОСТИ\tФОТО")
		for _, p := range persons {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Details, p.FileID)
		}
		return w.Flush()
	},
}

var AddCmd = &cobra.Command{
	Use:   "add",
	Short: "Добавить человека",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		if name == "" {
			return errors.New("укажите имя (--name)")
		}

		p, err := app.Persons.Add(cmd.Context(), name, details, image)
		if err != nil {
			return fmt.Errorf("ошибка добавления: %w", err)
		}
		types.Success("Добавлен %s (%s)", p.Name, p.ID)
		return nil
	},
}

var UpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Изменить запись о человеке",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		var patch person.Patch
		if cmd.Flags().Changed("name") {
			patch.Name = &name
		}
		if cmd.Flags().Changed("details") {
			patch.Details = &details
		}
		if cmd.Flags().Changed("image") {
			patch.ImageURI = &image
		}

		if _, err := app.Persons.Update(cmd.Context(), args[0], patch); err != nil {
			return fmt.Errorf("ошибка обновления: %w", err)
		}
		types.Success("Запись обновлена")
		return nil
	},
}

var DeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Удалить запись о человеке",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		if err := app.Persons.Delete(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("ошибка удаления: %w", err)
		}
		types.Success("Запись удалена")
		return nil
	},
}

var ImageCmd = &cobra.Command{
	Use:   "image <id>",
	Short: "Скачать фото человека",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		var fileID string
		for _, p := range app.Persons.Load(cmd.Context()) {
			if p.ID == args[0] {
				fileID = p.FileID
			}
		}
		if fileID == "" {
			return fmt.Errorf("у записи %s нет фото", args[0])
		}

		data, err := app.Persons.Image(cmd.Context(), fileID)
		if err != nil {
			return err
		}
		path := output
		if path == "" {
			path = args[0] + ".jpg"
		}
		if err := os.WriteFile(path, data, 0o600); err != nil {
			return fmt.Errorf("ошибка записи файла: %w", err)
		}
		types.Success("Фото сохранено в %s", path)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{AddCmd, UpdateCmd} {
		c.Flags().StringVar(&name, "name", "", "имя")
		c.Flags().StringVar(&details, "details", "", "подробности")
		c.Flags().StringVar(&image, "image", "", "путь к фото")
	}
	ImageCmd.Flags().StringVarP(&output, "output", "o", "", "файл для сохранения")
}
