package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"aperture-backend/internal/booking"
	"aperture-backend/internal/calendar"
	"aperture-backend/internal/reservations"
	"aperture-backend/internal/validation"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	baseURL := envOrDefault("APERTURE_API", "http://localhost:8080")
	adminKey := os.Getenv("APERTURE_ADMIN_KEY")
	client := booking.NewClient(baseURL, adminKey)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "calendar":
		err = runCalendar(ctx, client, os.Args[2:])
	case "book":
		err = runBook(ctx, client, os.Args[2:])
	case "list":
		err = runList(ctx, client, os.Args[2:])
	case "status":
		err = runStatus(ctx, client, os.Args[2:])
	case "delete":
		err = runDelete(ctx, client, os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: bookctl <command> [flags]

commands:
  calendar  print the availability grid for a month
  book      submit a reservation for an available day
  list      list reservations with optional filters
  status    update a reservation status
  delete    delete a reservation

environment:
  APERTURE_API        backend base URL (default http://localhost:8080)
  APERTURE_ADMIN_KEY  admin key for staff commands`)
}

func newFlow(client *booking.Client) *booking.Flow {
	return booking.NewFlow(client, validation.New(), booking.NewBus(), time.Local)
}

func runCalendar(ctx context.Context, client *booking.Client, args []string) error {
	fs := flag.NewFlagSet("calendar", flag.ExitOnError)
	now := time.Now()
	year := fs.Int("year", now.Year(), "calendar year")
	month := fs.Int("month", int(now.Month()), "calendar month (1-12)")
	fs.Parse(args)

	if *month < 1 || *month > 12 {
		return fmt.Errorf("invalid month %d", *month)
	}

	flow := newFlow(client)
	if err := flow.Refresh(ctx); err != nil {
		return err
	}
	days := flow.MonthGrid(*year, time.Month(*month))

	fmt.Printf("%s %d\n", time.Month(*month), *year)
	fmt.Println("Sun  Mon  Tue  Wed  Thu  Fri  Sat")
	for i, day := range days {
		cell := fmt.Sprintf("%2d", day.Number)
		switch {
		case !day.CurrentMonth:
			cell += "  "
		case day.Past:
			cell += " ."
		case !day.Available:
			cell += " x"
		default:
			cell += "  "
		}
		fmt.Print(cell, " ")
		if (i+1)%7 == 0 {
			fmt.Println()
		}
	}
	fmt.Println("legend: x booked, . past")
	return nil
}

func runBook(ctx context.Context, client *booking.Client, args []string) error {
	fs := flag.NewFlagSet("book", flag.ExitOnError)
	date := fs.String("date", "", "event date (YYYY-MM-DD)")
	service := fs.String("service", "", "service type: wedding, portrait, event, other")
	firstName := fs.String("first", "", "first name")
	lastName := fs.String("last", "", "last name")
	email := fs.String("email", "", "email address")
	phone := fs.String("phone", "", "phone number")
	message := fs.String("message", "", "optional message")
	fs.Parse(args)

	eventDate, err := time.ParseInLocation("2006-01-02", *date, time.Local)
	if err != nil {
		return fmt.Errorf("invalid -date: %w", err)
	}

	flow := newFlow(client)
	if err := flow.Refresh(ctx); err != nil {
		return err
	}

	days := flow.MonthGrid(eventDate.Year(), eventDate.Month())
	var target calendar.Day
	for _, day := range days {
		if day.CurrentMonth && day.Number == eventDate.Day() {
			target = day
			break
		}
	}
	if target.Date.IsZero() {
		return fmt.Errorf("date %s not in grid", *date)
	}
	if !flow.SelectDay(target) {
		return fmt.Errorf("date %s is not available", *date)
	}
	if !flow.OpenForm() {
		return fmt.Errorf("could not open booking form")
	}

	result, err := flow.Submit(ctx, booking.Form{
		FirstName:   *firstName,
		LastName:    *lastName,
		Email:       *email,
		Phone:       *phone,
		ServiceType: *service,
		Message:     *message,
	})
	if err != nil {
		return err
	}
	if !result.Valid {
		for field, msg := range result.Errors {
			fmt.Fprintf(os.Stderr, "  %s: %s\n", field, msg)
		}
		return fmt.Errorf("form validation failed")
	}

	fmt.Println(flow.Notice())
	return nil
}

func runList(ctx context.Context, client *booking.Client, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	page := fs.Int64("page", 1, "page number")
	limit := fs.Int64("limit", 20, "items per page")
	status := fs.String("status", "", "filter by status")
	service := fs.String("service", "", "filter by service type")
	date := fs.String("date", "", "filter by exact date (YYYY-MM-DD)")
	search := fs.String("search", "", "free-text search")
	fs.Parse(args)

	items, meta, err := client.ListReservations(ctx, *page, *limit)
	if err != nil {
		return err
	}

	filter := reservations.ListFilter{
		Status:      *status,
		ServiceType: *service,
		Date:        *date,
		Search:      *search,
	}
	filtered := reservations.ApplyFilter(items, filter, time.Local)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tSERVICE\tSTATUS\tNAME\tEMAIL")
	for _, item := range filtered {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s %s\t%s\n",
			item.ID,
			item.EventDate.In(time.Local).Format("2006-01-02"),
			item.ServiceType,
			item.Status,
			item.Contact.FirstName,
			item.Contact.LastName,
			item.Contact.Email,
		)
	}
	w.Flush()
	fmt.Printf("page %d/%d, %d total, %d shown\n", meta.CurrentPage, meta.TotalPages, meta.TotalItems, len(filtered))
	return nil
}

func runStatus(ctx context.Context, client *booking.Client, args []string) error {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	id := fs.String("id", "", "reservation id")
	to := fs.String("to", "", "new status: pending, confirmed, completed, cancelled")
	fs.Parse(args)

	if *id == "" || *to == "" {
		return fmt.Errorf("-id and -to are required")
	}
	if !reservations.ValidStatus(*to) {
		return fmt.Errorf("invalid status %q", *to)
	}

	item, err := client.UpdateReservationStatus(ctx, *id, *to)
	if err != nil {
		return err
	}
	fmt.Printf("%s is now %s\n", item.ID, item.Status)
	return nil
}

func runDelete(ctx context.Context, client *booking.Client, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	id := fs.String("id", "", "reservation id")
	yes := fs.Bool("yes", false, "skip confirmation")
	fs.Parse(args)

	if *id == "" {
		return fmt.Errorf("-id is required")
	}

	if !*yes {
		fmt.Printf("delete reservation %s? [y/N] ", *id)
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		if strings.ToLower(strings.TrimSpace(answer)) != "y" {
			fmt.Println("aborted")
			return nil
		}
	}

	if err := client.DeleteReservation(ctx, *id); err != nil {
		return err
	}
	fmt.Println("deleted", *id)
	return nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
