package lenses

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"lensadmin/internal/domain/lens"

	"golang.org/x/term"
)

// prompter задает вопросы в терминале
type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: bufio.NewReader(in), out: out}
}

// stdinIsTerminal сообщает, можно ли спрашивать пользователя.
func stdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// ask читает строку ответа; пустой ответ возвращает def.
func (p *prompter) ask(question, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(p.out, "%s [%s]: ", question, def)
	} else {
		fmt.Fprintf(p.out, "%s: ", question)
	}

	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("ошибка чтения ответа: %w", err)
	}

	answer := strings.TrimSpace(line)
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

// confirm спрашивает да/нет; по умолчанию - нет.
func (p *prompter) confirm(question string) (bool, error) {
	answer, err := p.ask(question+" (y/N)", "")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes", "д", "да":
		return true, nil
	}
	return false, nil
}

// chooseType предлагает выбрать тип линзы по номеру или названию.
func (p *prompter) chooseType() (string, error) {
	fmt.Fprintln(p.out, "Выберите тип линзы:")
	for i, t := range lens.Types {
		fmt.Fprintf(p.out, "%d. %s (%s)\n", i+1, t, t.DisplayName())
	}

	answer, err := p.ask(fmt.Sprintf("Ваш выбор [1-%d]", len(lens.Types)), "")
	if err != nil {
		return "", err
	}
	if n, err := strconv.Atoi(answer); err == nil {
		if n < 1 || n > len(lens.Types) {
			return "", fmt.Errorf("неверный выбор: %d", n)
		}
		return string(lens.Types[n-1]), nil
	}
	return answer, nil
}

// fillForm запрашивает незаполненные поля формы создания.
func (p *prompter) fillForm(f *lens.Form) error {
	var err error
	if f.ID == "" {
		if f.ID, err = p.ask("ID", ""); err != nil {
			return err
		}
	}
	if f.LensType == "" {
		if f.LensType, err = p.chooseType(); err != nil {
			return err
		}
	}

	fields := []struct {
		question string
		value    *string
	}{
		{"Сфера (дптр)", &f.Sphere},
		{"Цилиндр (дптр)", &f.Cylinder},
		{"Цена", &f.UnitPrice},
		{"Количество (пусто - 0)", &f.Quantity},
		{"Лимит хранения (пусто - без лимита)", &f.StorageLimit},
		{"Комментарий", &f.Comment},
	}
	for _, field := range fields {
		if *field.value != "" {
			continue
		}
		if *field.value, err = p.ask(field.question, ""); err != nil {
			return err
		}
	}
	return nil
}
