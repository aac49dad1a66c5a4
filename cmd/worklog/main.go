package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dori/worklog/internal/app"
	"github.com/dori/worklog/internal/model"
	"github.com/dori/worklog/internal/report"
)

var (
	version = "0.1.0"
)

func main() {
	if len(os.Args) < 2 {
		printHelp()
		return
	}

	var err error
	switch os.Args[1] {
	case "add":
		err = handleAdd(os.Args[2:])
	case "start":
		err = handleTransition(os.Args[2:], (*model.Task).Start, model.KindStart)
	case "pause":
		err = handleTransition(os.Args[2:], (*model.Task).Pause, model.KindPause)
	case "complete":
		err = handleTransition(os.Args[2:], (*model.Task).Complete, model.KindComplete)
	case "note":
		err = handleNote(os.Args[2:])
	case "report":
		err = handleReport(os.Args[2:])
	case "month":
		err = handleMonth(os.Args[2:])
	case "pdf":
		err = handlePDF(os.Args[2:])
	case "errors":
		err = handleErrors(os.Args[2:])
	case "version":
		fmt.Printf("worklog v%s\n", version)
	case "help", "-h", "--help":
		printHelp()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printHelp()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printHelp() {
	help := `worklog - personal work-time tracking

Usage:
  worklog add <description>           Add a task for the day
  worklog start    <fragment>         Start (or resume) a task
  worklog pause    <fragment>         Pause a running task
  worklog complete <fragment>         Complete a task
  worklog note <fragment> <text>      Attach a note to a task
  worklog report [options]            Daily report
  worklog month  [options]            Monthly report
  worklog pdf    [options]            Monthly report as a PDF
  worklog errors                      Incomplete tasks from previous days
  worklog version                     Show version
  worklog help                        Show this help

Tasks are addressed by any unique substring of their uuid, so the
short tail printed in reports is enough.

Options:
  --file PATH       Work log location (also the WORK_LOG env variable)
  --date YYYY-MM-DD Report date, defaults to today; month/pdf use the
                    containing month
  --format NAME     Daily report format: terminal, email or json
  --out PATH        Destination for the pdf command`

	fmt.Println(help)
}

// commonFlags attaches the flags shared by every subcommand.
func commonFlags(fs *flag.FlagSet) (file, date *string) {
	file = fs.String("file", "", "work log location (defaults to $WORK_LOG)")
	date = fs.String("date", "", "date to operate on, YYYY-MM-DD (defaults to today)")
	return file, date
}

func openApp(file string) (*app.App, error) {
	cfg := app.DefaultConfig()
	if file != "" {
		cfg = &app.Config{DBPath: file}
	}
	return app.New(cfg)
}

func parseDate(s string, now time.Time) (time.Time, error) {
	if s == "" {
		return now, nil
	}
	d, err := time.ParseInLocation("2006-01-02", s, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD: %w", s, err)
	}
	return d, nil
}

func handleAdd(args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	file, _ := commonFlags(fs)
	fs.Parse(args)

	description := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if description == "" {
		return fmt.Errorf("usage: worklog add <description>")
	}

	a, err := openApp(*file)
	if err != nil {
		return err
	}
	defer a.Close()

	task := model.NewTask(description, time.Now())
	if err := a.DB.CreateTask(task); err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	fmt.Printf("task added: %s\n", task.ID)
	return nil
}

// handleTransition resolves a task by fragment, applies one state
// machine operation and writes the new event through. Nothing is
// persisted when the transition is rejected.
func handleTransition(args []string, apply func(*model.Task, time.Time) error, kind model.EventKind) error {
	fs := flag.NewFlagSet(strings.ToLower(string(kind)), flag.ExitOnError)
	file, _ := commonFlags(fs)
	fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("usage: worklog %s <task id fragment>", strings.ToLower(string(kind)))
	}
	fragment := fs.Arg(0)

	a, err := openApp(*file)
	if err != nil {
		return err
	}
	defer a.Close()

	tasks, err := a.DB.LoadTasks()
	if err != nil {
		return err
	}

	task, err := model.Resolve(tasks, fragment)
	if err != nil {
		return err
	}

	if err := apply(task, time.Now()); err != nil {
		return err
	}
	if err := a.DB.AppendEvent(task.ID, task.Events[len(task.Events)-1]); err != nil {
		return fmt.Errorf("failed to record transition: %w", err)
	}

	fmt.Printf("task %s is now %s\n", task.ID, task.Status())
	return nil
}

func handleNote(args []string) error {
	fs := flag.NewFlagSet("note", flag.ExitOnError)
	file, _ := commonFlags(fs)
	fs.Parse(args)

	if fs.NArg() < 2 {
		return fmt.Errorf("usage: worklog note <task id fragment> <text>")
	}
	fragment := fs.Arg(0)
	note := strings.TrimSpace(strings.Join(fs.Args()[1:], " "))
	if note == "" {
		return fmt.Errorf("expected a non-empty note")
	}

	a, err := openApp(*file)
	if err != nil {
		return err
	}
	defer a.Close()

	tasks, err := a.DB.LoadTasks()
	if err != nil {
		return err
	}

	task, err := model.Resolve(tasks, fragment)
	if err != nil {
		return err
	}

	task.AddNote(note)
	if err := a.DB.AddNote(task.ID, note, time.Now()); err != nil {
		return fmt.Errorf("failed to record note: %w", err)
	}

	fmt.Printf("note added to %s\n", task.ID)
	return nil
}

func handleReport(args []string) error {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	file, date := commonFlags(fs)
	format := fs.String("format", string(report.FormatTerminal), "output format: terminal, email or json")
	fs.Parse(args)

	now := time.Now()
	day, err := parseDate(*date, now)
	if err != nil {
		return err
	}

	a, err := openApp(*file)
	if err != nil {
		return err
	}
	defer a.Close()

	tasks, err := a.DB.LoadTasks()
	if err != nil {
		return err
	}

	r, err := report.Build(tasks, report.DayScope(day), now)
	if err != nil {
		return err
	}

	out, err := report.RenderDaily(r, report.Format(*format))
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

func handleMonth(args []string) error {
	fs := flag.NewFlagSet("month", flag.ExitOnError)
	file, date := commonFlags(fs)
	fs.Parse(args)

	now := time.Now()
	day, err := parseDate(*date, now)
	if err != nil {
		return err
	}

	a, err := openApp(*file)
	if err != nil {
		return err
	}
	defer a.Close()

	tasks, err := a.DB.LoadTasks()
	if err != nil {
		return err
	}

	m, err := report.BuildMonth(tasks, day, now)
	if err != nil {
		return err
	}

	fmt.Println(report.RenderMonth(m))
	return nil
}

func handlePDF(args []string) error {
	fs := flag.NewFlagSet("pdf", flag.ExitOnError)
	file, date := commonFlags(fs)
	out := fs.String("out", "", "destination path for the pdf")
	fs.Parse(args)

	now := time.Now()
	day, err := parseDate(*date, now)
	if err != nil {
		return err
	}

	a, err := openApp(*file)
	if err != nil {
		return err
	}
	defer a.Close()

	tasks, err := a.DB.LoadTasks()
	if err != nil {
		return err
	}

	m, err := report.BuildMonth(tasks, day, now)
	if err != nil {
		return err
	}

	path := *out
	if path == "" {
		path = report.DefaultPDFPath(m)
	}
	if err := report.WriteMonthPDF(m, path); err != nil {
		return err
	}

	fmt.Printf("Pdf file located at: %s\n", path)
	return nil
}

func handleErrors(args []string) error {
	fs := flag.NewFlagSet("errors", flag.ExitOnError)
	file, _ := commonFlags(fs)
	fs.Parse(args)

	a, err := openApp(*file)
	if err != nil {
		return err
	}
	defer a.Close()

	tasks, err := a.DB.LoadTasks()
	if err != nil {
		return err
	}

	days, err := report.BuildStale(tasks, time.Now())
	if err != nil {
		return err
	}

	fmt.Println(report.RenderStale(days))
	return nil
}
