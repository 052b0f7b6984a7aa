package commands

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// Menu option codes, kept from the classic client.
const (
	optExit       = 0
	optRegister   = 10
	optList       = 20
	optPubKey     = 30
	optPending    = 40
	optSendText   = 50
	optKeyRequest = 51
	optKeySend    = 52
	optSendFile   = 53
)

func menuCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Run the interactive menu",
		Args:  cobra.NoArgs,
		RunE:  runMenu,
	}
}

func runMenu(cmd *cobra.Command, _ []string) error {
	in := bufio.NewScanner(os.Stdin)
	for {
		if self, ok := appCtx.Identity.Self(); ok {
			fmt.Printf("Hello %s, ", self.Name)
		}
		fmt.Print("MessageU client at your service.\n\n")
		fmt.Println("10) Register")
		fmt.Println("20) Request for clients list")
		fmt.Println("30) Request for public key")
		fmt.Println("40) Request for waiting messages")
		fmt.Println("50) Send a text message")
		fmt.Println("51) Send a request for symmetric key")
		fmt.Println("52) Send your symmetric key")
		fmt.Println("53) Send a file")
		fmt.Println(" 0) Exit client")
		fmt.Print("? ")

		line, ok := readLine(in)
		if !ok {
			return nil
		}
		choice, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil {
			fmt.Println("Invalid input. Please try again..")
			continue
		}
		if choice == optExit {
			return nil
		}
		if choice != optRegister && !appCtx.Identity.Registered() {
			fmt.Println("You must register first!")
			continue
		}
		if err := handleChoice(choice, in); err != nil {
			fmt.Println("Error: " + err.Error())
		}
		fmt.Println()
	}
}

func handleChoice(choice int, in *bufio.Scanner) error {
	switch choice {
	case optRegister:
		if appCtx.Identity.Registered() {
			fmt.Println("You have already registered!")
			return nil
		}
		name, ok := prompt(in, "Please type your username..")
		if !ok {
			return nil
		}
		if err := appCtx.Identity.Register(name); err != nil {
			return err
		}
		fmt.Println("Successfully registered on server.")

	case optList:
		n, err := appCtx.Roster.Refresh()
		if err != nil {
			return err
		}
		if n == 0 {
			fmt.Println("Server has no users registered.")
			return nil
		}
		fmt.Println("Registered users:")
		for _, name := range appCtx.Peers.Names() {
			fmt.Println("  " + name)
		}

	case optPubKey:
		name, ok := prompt(in, "Please type a username..")
		if !ok {
			return nil
		}
		if err := appCtx.Roster.FetchPublicKey(name); err != nil {
			return err
		}
		fmt.Printf("%s's public key was retrieved successfully.\n", name)

	case optPending:
		msgs, err := appCtx.Messages.FetchPending()
		for _, m := range msgs {
			fmt.Printf("From: %s\nContent:\n%s\n\n", m.Sender, m.Body.Render())
		}
		if len(msgs) == 0 && err == nil {
			fmt.Println("There are no pending messages.")
		}
		for _, w := range appCtx.Messages.Warnings() {
			fmt.Println("warning: " + w)
		}
		return err

	case optSendText:
		name, ok := prompt(in, "Please type a username..")
		if !ok {
			return nil
		}
		text, ok := prompt(in, "Enter message: ")
		if !ok {
			return nil
		}
		id, err := appCtx.Messages.SendText(name, text)
		if err != nil {
			return err
		}
		fmt.Printf("Message was sent successfully. Message ID: %d\n", id)

	case optKeyRequest:
		name, ok := prompt(in, "Please type a username..")
		if !ok {
			return nil
		}
		id, err := appCtx.Messages.RequestKey(name)
		if err != nil {
			return err
		}
		fmt.Printf("Symmetric key request was sent successfully. Message ID: %d\n", id)

	case optKeySend:
		name, ok := prompt(in, "Please type a username..")
		if !ok {
			return nil
		}
		id, err := appCtx.Messages.SendKey(name)
		if err != nil {
			return err
		}
		fmt.Printf("Symmetric key was sent successfully. Message ID: %d\n", id)

	case optSendFile:
		name, ok := prompt(in, "Please type a username..")
		if !ok {
			return nil
		}
		path, ok := prompt(in, "Enter filepath: ")
		if !ok {
			return nil
		}
		id, err := appCtx.Messages.SendFile(name, path)
		if err != nil {
			return err
		}
		fmt.Printf("File was sent successfully. Message ID: %d\n", id)

	default:
		fmt.Println("Invalid input. Please try again..")
	}
	return nil
}

func prompt(in *bufio.Scanner, msg string) (string, bool) {
	fmt.Println(msg)
	line, ok := readLine(in)
	return strings.TrimSpace(line), ok
}

func readLine(in *bufio.Scanner) (string, bool) {
	if !in.Scan() {
		return "", false
	}
	return in.Text(), true
}
