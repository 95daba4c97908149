package clothes

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"vera/cmd/client/cmd/types"
	"vera/internal/domain/clothing"
)

// ClothesCmd - родительская команда для гардероба
var ClothesCmd = &cobra.Command{
	Use:   "clothes",
	Short: "Гардероб",
}

var (
	name     string
	category string
	color    string
	size     string
	brand    string
	notes    string
	image    string
	output   string
)

var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "Показать вещи",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		items := app.Clothing.Load(cmd.Context())
		if len(items) == 0 {
			fmt.Println("Гардероб пуст")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tНАЗВАНИЕ\tКАТЕГОРИЯ\tЦВЕТ\tРАЗМЕР\tБРЕНД\tФОТО")
		for _, it := range items {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n", it.ID, it.Name, it.Category, it.Color, it.Size, it.Brand, it.FileID)
		}
		return w.Flush()
	},
}

var AddCmd = &cobra.Command{
	Use:   "add",
	Short: "Добавить вещь",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		if name == "" {
			return errors.New("укажите название вещи (--name)")
		}

		item, err := app.Clothing.Add(cmd.Context(), clothing.Item{
			Name:     name,
			Category: category,
			Color:    color,
			Size:     size,
			Brand:    brand,
			Notes:    notes,
			ImageURI: image,
		})
		if err != nil {
			return fmt.Errorf("ошибка добавления вещи: %w", err)
		}
		types.Success("Вещь добавлена (%s)", item.ID)
		return nil
	},
}

var UpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Изменить вещь",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		item, ok := find(app.Clothing.Load(cmd.Context()), args[0])
		if !ok {
			return fmt.Errorf("вещь %s не найдена", args[0])
		}

		set := func(flag string, dst *string, v string) {
			if cmd.Flags().Changed(flag) {
				*dst = v
			}
		}
		set("name", &item.Name, name)
		set("category", &item.Category, category)
		set("color", &item.Color, color)
		set("size", &item.Size, size)
		set("brand", &item.Brand, brand)
		set("notes", &item.Notes, notes)
		set("image", &item.ImageURI, image)

		if _, err := app.Clothing.Update(cmd.Context(), item); err != nil {
			return fmt.Errorf("ошибка обновления вещи: %w", err)
		}
		types.Success("Вещь обновлена")
		return nil
	},
}

var DeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Удалить вещь",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		if err := app.Clothing.Delete(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("ошибка удаления вещи: %w", err)
		}
		types.Success("Вещь удалена")
		return nil
	},
}

var ImageCmd = &cobra.Command{
	Use:   "image <id>",
	Short: "Скачать фото вещи",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		item, ok := find(app.Clothing.Load(cmd.Context()), args[0])
		if !ok {
			return fmt.Errorf("вещь %s не найдена", args[0])
		}
		if item.FileID == "" {
			return errors.New("у вещи нет фото")
		}

		data, err := app.Clothing.Image(cmd.Context(), item.FileID)
		if err != nil {
			return err
		}
		path := output
		if path == "" {
			path = item.ID + ".jpg"
		}
		if err := os.WriteFile(path, data, 0o600); err != nil {
			return fmt.Errorf("ошибка записи файла: %w", err)
		}
		types.Success("Фото сохранено в %s", path)
		return nil
	},
}

func find(items []clothing.Item, id string) (clothing.Item, bool) {
	for _, it := range items {
		if it.ID == id {
			return it, true
		}
	}
	return clothing.Item{}, false
}

func init() {
	for _, c := range []*cobra.Command{AddCmd, UpdateCmd} {
		f := c.Flags()
		f.StringVar(&name, "name", "", "название")
		f.StringVar(&category, "category", "", "категория")
		f.StringVar(&color, "color", "", "цвет")
		f.StringVar(&size, "size", "", "размер")
		f.StringVar(&brand, "brand", "", "бренд")
		f.StringVar(&notes, "notes", "", "заметки")
		f.StringVar(&image, "image", "", "путь к фото")
	}
	ImageCmd.Flags().StringVarP(&output, "output", "o", "", "файл для сохранения")
}
