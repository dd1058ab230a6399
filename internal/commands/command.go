package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sandeepkv93/questd/internal/model"
)

type Type string

const (
	TypeAdd    Type = "add"
	TypeRemind Type = "remind"
	TypeDelete Type = "delete"
	TypeWeek   Type = "week"
	TypeSync   Type = "sync"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Clock is a wall-clock time of day.
type Clock struct {
	Hour   int
	Minute int
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

type AddArgs struct {
	Title string
	At    *Clock
	Days  []model.Weekday
}

type RemindArgs struct {
	Kind  model.Kind
	Title string
	Times []Clock
	Days  []model.Weekday
}

// DeleteArgs addresses a task by its 1-based position in the visible list.
type DeleteArgs struct {
	Index int
}

type WeekArgs struct {
	Offset int
}

type Command struct {
	Type   Type
	Raw    string
	Add    *AddArgs
	Remind *RemindArgs
	Delete *DeleteArgs
	Week   *WeekArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeRemind:
		return parseRemind(input, args)
	case TypeDelete, "rm":
		return parseDelete(input, args)
	case TypeWeek:
		return parseWeek(input, args)
	case TypeSync:
		return Command{Type: TypeSync, Raw: input}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

// parseAdd reads "add <title> [at HH:MM] [on mon,wed]".
func parseAdd(raw string, args []string) (Command, error) {
	title, clauses, err := splitClauses(args)
	if err != nil {
		return Command{}, err
	}
	if title == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a title"}
	}
	out := AddArgs{Title: title, Days: clauses.days}
	switch len(clauses.times) {
	case 0:
	case 1:
		out.At = &clauses.times[0]
	default:
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add takes a single time; use remind for several"}
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &out}, nil
}

// parseRemind reads "remind <medication|hydration> <title> at HH:MM[,HH:MM] [on days]".
func parseRemind(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "remind requires a kind"}
	}
	kind := model.Kind(strings.ToLower(args[0]))
	switch kind {
	case "med", "meds", "pill":
		kind = model.KindMedication
	case "water", "drink":
		kind = model.KindHydration
	}
	if kind != model.KindMedication && kind != model.KindHydration {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown reminder kind: %s", args[0])}
	}
	title, clauses, err := splitClauses(args[1:])
	if err != nil {
		return Command{}, err
	}
	if title == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "remind requires a title"}
	}
	if len(clauses.times) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "remind requires at least one time"}
	}
	return Command{Type: TypeRemind, Raw: raw, Remind: &RemindArgs{
		Kind:  kind,
		Title: title,
		Times: clauses.times,
		Days:  clauses.days,
	}}, nil
}

func parseDelete(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "delete requires a task number"}
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("invalid task number: %s", args[0])}
	}
	return Command{Type: TypeDelete, Raw: raw, Delete: &DeleteArgs{Index: n}}, nil
}

func parseWeek(raw string, args []string) (Command, error) {
	offset := 0
	if len(args) > 0 {
		n, err := strconv.Atoi(strings.TrimPrefix(args[0], "+"))
		if err != nil {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("invalid week offset: %s", args[0])}
		}
		offset = n
	}
	return Command{Type: TypeWeek, Raw: raw, Week: &WeekArgs{Offset: offset}}, nil
}

type clauses struct {
	times []Clock
	days  []model.Weekday
}

// splitClauses separates leading title words from trailing "at" and "on"
// clauses.
func splitClauses(args []string) (string, clauses, error) {
	var out clauses
	title := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		word := strings.ToLower(args[i])
		if (word == "at" || word == "on") && i+1 < len(args) {
			value := args[i+1]
			i++
			if word == "at" {
				times, err := parseClocks(value)
				if err != nil {
					return "", clauses{}, err
				}
				out.times = append(out.times, times...)
				continue
			}
			days, err := parseDays(value)
			if err != nil {
				return "", clauses{}, err
			}
			out.days = append(out.days, days...)
			continue
		}
		title = append(title, args[i])
	}
	return strings.TrimSpace(strings.Join(title, " ")), out, nil
}

func parseClocks(value string) ([]Clock, error) {
	out := make([]Clock, 0, 2)
	for _, item := range strings.Split(value, ",") {
		c, err := ParseClock(item)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// ParseClock accepts HH:MM in 24-hour form.
func ParseClock(value string) (Clock, error) {
	h, m, ok := strings.Cut(strings.TrimSpace(value), ":")
	hour, herr := strconv.Atoi(h)
	minute, merr := strconv.Atoi(m)
	if !ok || herr != nil || merr != nil || hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return Clock{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("invalid time: %s", value)}
	}
	return Clock{Hour: hour, Minute: minute}, nil
}

func parseDays(value string) ([]model.Weekday, error) {
	switch strings.ToLower(value) {
	case "daily", "everyday":
		return append([]model.Weekday(nil), model.Weekdays...), nil
	case "weekdays":
		return append([]model.Weekday(nil), model.Weekdays[:5]...), nil
	case "weekends":
		return append([]model.Weekday(nil), model.Weekdays[5:]...), nil
	}
	days, err := model.ParseWeekdays(strings.Split(value, ","))
	if err != nil {
		return nil, &CommandError{Code: ErrCodeInvalidArgument, Message: err.Error()}
	}
	return days, nil
}
