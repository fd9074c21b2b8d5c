// Command dnsquery sends one DNS query and prints the reply.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/miekg/dns"
	"github.com/spf13/cobra"
)

type queryCmd struct {
	server  string
	useTCP  bool
	timeout time.Duration
	udpSize uint16
	noRD    bool
}

func (c *queryCmd) run(cmd *cobra.Command, args []string) error {
	qtype := dns.TypeA
	if len(args) == 2 {
		t, ok := dns.StringToType[strings.ToUpper(args[1])]
		if !ok {
			return fmt.Errorf("unknown query type %q", args[1])
		}
		qtype = t
	}

	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(args[0]), qtype)
	m.RecursionDesired = !c.noRD
	if c.udpSize > 0 {
		m.SetEdns0(c.udpSize, false)
	}

	network := "udp"
	if c.useTCP {
		network = "tcp"
	}
	client := &dns.Client{Net: network, Timeout: c.timeout}
	resp, rtt, err := client.Exchange(m, c.server)
	if err != nil {
		return fmt.Errorf("query %s: %w", c.server, err)
	}
	return printReply(cmd.OutOrStdout(), resp, network, rtt)
}

func printReply(w io.Writer, resp *dns.Msg, network string, rtt time.Duration) error {
	_, err := fmt.Fprintf(w, "id=%d rcode=%s aa=%t tc=%t answers=%d via=%s rtt=%s\n",
		resp.Id,
		dns.RcodeToString[resp.Rcode],
		resp.Authoritative,
		resp.Truncated,
		len(resp.Answer),
		network,
		rtt.Round(time.Microsecond),
	)
	if err != nil {
		return err
	}
	for _, rr := range resp.Answer {
		if _, err := fmt.Fprintln(w, rr.String()); err != nil {
			return err
		}
	}
	return nil
}

func newRootCmd() *cobra.Command {
	c := &queryCmd{}
	cmd := &cobra.Command{
		Use:           "dnsquery NAME [TYPE]",
		Short:         "Send one DNS query and print the answer section",
		Args:          cobra.RangeArgs(1, 2),
		RunE:          c.run,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.Flags().StringVarP(&c.server, "server", "s", "127.0.0.1:53", "DNS server HOST:PORT")
	cmd.Flags().BoolVar(&c.useTCP, "tcp", false, "query over TCP instead of UDP")
	cmd.Flags().DurationVar(&c.timeout, "timeout", 2*time.Second, "exchange timeout")
	cmd.Flags().Uint16Var(&c.udpSize, "edns", 0, "advertise this EDNS0 UDP payload size (0 disables EDNS0)")
	cmd.Flags().BoolVar(&c.noRD, "no-rd", false, "clear the recursion desired bit")
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "dnsquery error: %v\n", err)
		os.Exit(1)
	}
}
