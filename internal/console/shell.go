package console

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/klabast/wb-services/holiday-planner/internal/calendar"
)

// Calendar is the part of the core the menu uses
type Calendar interface {
	Today() calendar.Date
	AddUserHoliday(date calendar.Date, name string) error
	YearView(year int) []calendar.MonthView
	CreateSchedule(date calendar.Date, items []string) error
	GetSchedule(date calendar.Date) ([]string, bool)
}

// User-facing messages
const (
	msgBadDate       = "Ошибка: Неверный формат даты. Используйте формат DD-MM-YYYY."
	msgPastDate      = "Ошибка: Дата должна быть сегодня или позже."
	msgEmptyName     = "Ошибка: Название праздника не может быть пустым."
	msgEmptySchedule = "Ошибка: Расписание не может быть пустым."
	msgBadYear       = "Ошибка: Неверный год."
	msgBadChoice     = "Ошибка: Неверный выбор. Пожалуйста, выберите от 1 до 5."
	msgSaveFailed    = "Ошибка: Не удалось сохранить данные."
	msgNoHolidays    = "Нет праздников в этом месяце."
	msgBye           = "Выход из программы."
)

// Shell is the interactive text menu
type Shell struct {
	cal Calendar
	in  LineReader
	out io.Writer
	log *zap.SugaredLogger
}

// NewShell creates a menu over cal reading from in and printing to out
func NewShell(cal Calendar, in LineReader, out io.Writer, log *zap.SugaredLogger) *Shell {
	return &Shell{cal: cal, in: in, out: out, log: log}
}

// Run shows the main menu until the user exits or input ends
func (s *Shell) Run() error {
	for {
		s.println("\n--- Главное меню ---")
		s.println("1. Добавить праздник")
		s.println("2. Просмотр календаря")
		s.println("3. Создать расписание")
		s.println("4. Просмотр расписания")
		s.println("5. Выход")

		choice, err := s.in.ReadLine("Выберите действие (1-5): ")
		if err != nil {
			return eofIsExit(err)
		}

		switch strings.TrimSpace(choice) {
		case "1":
			err = s.addHoliday()
		case "2":
			err = s.viewCalendar()
		case "3":
			err = s.createSchedule()
		case "4":
			err = s.viewSchedule()
		case "5":
			s.println(msgBye)
			return nil
		default:
			s.println(msgBadChoice)
		}
		if err != nil {
			return eofIsExit(err)
		}
	}
}

func (s *Shell) addHoliday() error {
	s.println("\n--- Добавить свой праздник ---")
	date, err := s.readDate("Введите дату праздника (формат: DD-MM-YYYY): ", true)
	if err != nil {
		return err
	}

	name, err := s.in.ReadLine("Введите название праздника: ")
	if err != nil {
		return err
	}
	name = strings.TrimSpace(name)

	if !s.report(s.cal.AddUserHoliday(date, name)) {
		return nil
	}
	s.printf("Праздник '%s' успешно добавлен!\n", name)
	return nil
}

func (s *Shell) viewCalendar() error {
	s.println("\n--- Календарь праздников ---")
	var year int
	for {
		line, err := s.in.ReadLine("Введите год для просмотра календаря: ")
		if err != nil {
			return err
		}
		year, err = strconv.Atoi(strings.TrimSpace(line))
		if err == nil && year >= 1 && year <= 9999 {
			break
		}
		s.println(msgBadYear)
	}

	for _, view := range s.cal.YearView(year) {
		s.printf("\nМесяц: %s\n", view.Month)
		if len(view.Days) == 0 {
			s.println(msgNoHolidays)
			continue
		}
		for _, day := range view.Days {
			s.printf("%d - %s\n", day.Day, strings.Join(day.Names, ", "))
		}
	}
	return nil
}

func (s *Shell) createSchedule() error {
	s.println("\n--- Создать расписание дня ---")
	date, err := s.readDate("Введите дату для создания расписания (формат: DD-MM-YYYY): ", true)
	if err != nil {
		return err
	}

	s.println("Введите расписание (одно событие на строку, завершите ввод пустой строкой):")
	var items []string
	for {
		line, err := s.in.ReadLine("")
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		if strings.TrimSpace(line) == "" {
			break
		}
		items = append(items, line)
	}

	if !s.report(s.cal.CreateSchedule(date, items)) {
		return nil
	}
	s.printf("Расписание для %s успешно сохранено!\n", date.Display())
	return nil
}

func (s *Shell) viewSchedule() error {
	s.println("\n--- Просмотр расписания ---")
	date, err := s.readDate("Введите дату для просмотра расписания (формат: DD-MM-YYYY): ", false)
	if err != nil {
		return err
	}

	items, ok := s.cal.GetSchedule(date)
	if !ok {
		s.printf("Расписание для %s не найдено.\n", date.Display())
		return nil
	}
	s.printf("Расписание для %s:\n", date.Display())
	for i, item := range items {
		s.printf("%d. %s\n", i+1, item)
	}
	return nil
}

// readDate prompts until a valid DD-MM-YYYY date is entered. With
// notPast, dates before today are refused as well.
func (s *Shell) readDate(prompt string, notPast bool) (calendar.Date, error) {
	for {
		line, err := s.in.ReadLine(prompt)
		if err != nil {
			return calendar.Date{}, err
		}
		date, err := calendar.ParseInputDate(strings.TrimSpace(line))
		if err != nil {
			s.println(msgBadDate)
			continue
		}
		if notPast && date.Before(s.cal.Today()) {
			s.println(msgPastDate)
			continue
		}
		return date, nil
	}
}

// report prints err for the user and reports whether the write succeeded
func (s *Shell) report(err error) bool {
	if err == nil {
		return true
	}

	var vErr *calendar.ValidationError
	if errors.As(err, &vErr) {
		switch vErr.Reason {
		case calendar.ReasonDateInPast:
			s.println(msgPastDate)
		case calendar.ReasonEmptyName:
			s.println(msgEmptyName)
		case calendar.ReasonEmptySchedule:
			s.println(msgEmptySchedule)
		default:
			s.printf("Ошибка: %s\n", vErr.Reason)
		}
		return false
	}

	s.log.Errorw("Failed to save calendar", "error", err)
	s.println(msgSaveFailed)
	return false
}

func (s *Shell) println(a ...interface{}) {
	fmt.Fprintln(s.out, a...)
}

func (s *Shell) printf(format string, a ...interface{}) {
	fmt.Fprintf(s.out, format, a...)
}

func eofIsExit(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
