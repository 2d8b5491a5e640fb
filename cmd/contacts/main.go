package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/trustguard/trustguard/config"
	"github.com/trustguard/trustguard/contacts"
	"github.com/trustguard/trustguard/internal"
	"github.com/trustguard/trustguard/logging"
	"golang.org/x/term"
)

const usage = `Usage: contacts <command> [flags]

Commands:
  add -name NAME -channel CHANNEL   add or replace a trusted contact (prompts for the safe word)
  list                              list trusted contacts
  verify -name NAME                 check a safe word against a contact (prompts for the safe word)
`

func main() {
	logging.UseStderr()
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	c, err := config.NewInstanceConfig()
	if err != nil {
		log.Fatal(err)
	}

	book, store, err := internal.OpenContactBook(c)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	ctx := context.Background()
	switch os.Args[1] {
	case "add":
		err = runAdd(ctx, book, os.Args[2:], os.Stdin, os.Stdout)
	case "list":
		err = runList(ctx, book, os.Stdout)
	case "verify":
		var match bool
		match, err = runVerify(ctx, book, os.Args[2:], os.Stdin, os.Stdout)
		if err == nil && !match {
			store.Close()
			os.Exit(1)
		}
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func runAdd(ctx context.Context, book *contacts.Book, args []string, in *os.File, out io.Writer) error {
	flags := flag.NewFlagSet("add", flag.ContinueOnError)
	name := flags.String("name", "", "Name of the trusted contact.")
	channel := flags.String("channel", "", "Phone number or email address of the contact.")
	if err := flags.Parse(args); err != nil {
		return err
	}

	safeWord, err := readSecret(in, out, "Shared safe word: ")
	if err != nil {
		return err
	}
	contact, err := book.Save(ctx, *name, *channel, safeWord)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "Saved contact: %s\n", contact.Name)
	return err
}

func runList(ctx context.Context, book *contacts.Book, out io.Writer) error {
	list, err := book.List(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		_, err = fmt.Fprintln(out, "No contacts yet.")
		return err
	}
	for _, contact := range list {
		if _, err = fmt.Fprintf(out, "- %s\n", contact); err != nil {
			return err
		}
	}
	return nil
}

func runVerify(ctx context.Context, book *contacts.Book, args []string, in *os.File, out io.Writer) (bool, error) {
	flags := flag.NewFlagSet("verify", flag.ContinueOnError)
	name := flags.String("name", "", "Name of the trusted contact.")
	if err := flags.Parse(args); err != nil {
		return false, err
	}
	if *name == "" {
		return false, errors.New("-name is required")
	}

	attempt, err := readSecret(in, out, "Safe word: ")
	if err != nil {
		return false, err
	}
	match, err := book.Verify(ctx, *name, attempt)
	if err != nil {
		return false, err
	}
	if match {
		_, err = fmt.Fprintln(out, "Match. You can trust this conversation starter.")
	} else {
		_, err = fmt.Fprintln(out, "No match. Hang up and call back using your own contact list.")
	}
	return match, err
}

// readSecret - prompts without echo when attached to a terminal, otherwise reads a single line so the tool can be
// scripted.
func readSecret(in *os.File, out io.Writer, prompt string) (string, error) {
	fd := int(in.Fd())
	if term.IsTerminal(fd) {
		if _, err := fmt.Fprint(out, prompt); err != nil {
			return "", err
		}
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(out)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	return readLine(in)
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
