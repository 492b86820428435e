package pipewire

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

func pwLink(outPortID, inPortID pwObjectID) error {
	cmd := exec.Command("pw-link", "-L", fmt.Sprint(outPortID), fmt.Sprint(inPortID))
	if out, err := cmd.CombinedOutput(); err != nil {
		return errors.Wrapf(err, "pw-link: %s", strings.TrimSpace(string(out)))
	}
	return nil
}

type pwLinkObject struct {
	DeviceName string
	PortID     pwObjectID
	PortName   string // usually {input,output,monitor}_{FL,FR}
}

// parseLinkObject parses an `ID device:port` line printed by pw-link -I.
func parseLinkObject(line string) (pwLinkObject, error) {
	idStr, portStr, ok := strings.Cut(line, " ")
	if !ok {
		return pwLinkObject{}, errors.Errorf("malformed pw-link object %q", line)
	}

	id, err := strconv.Atoi(idStr)
	if err != nil {
		return pwLinkObject{}, errors.Wrapf(err, "malformed pw-link object id %q", idStr)
	}

	name, port, ok := strings.Cut(portStr, ":")
	if !ok {
		return pwLinkObject{}, errors.Errorf("malformed pw-link port %q", portStr)
	}

	return pwLinkObject{
		DeviceName: name,
		PortID:     pwObjectID(id),
		PortName:   port,
	}, nil
}

// parseLinkEvent parses one line of pw-link -m output. Lines that are not
// port additions are reported as not ok.
func parseLinkEvent(line string) (pwLinkObject, bool) {
	if line == "" {
		return pwLinkObject{}, false
	}

	// '=' lists existing ports on startup, '+' announces new ones
	if mark := line[0]; mark != '=' && mark != '+' {
		return pwLinkObject{}, false
	}

	obj, err := parseLinkObject(strings.TrimSpace(line[1:]))
	return obj, err == nil
}

// pwLinkMonitor sends every output port that appears until ctx is done.
func pwLinkMonitor(ctx context.Context, added chan<- pwLinkObject) error {
	cmd := exec.CommandContext(ctx, "pw-link", "-mIo")
	cmd.Stderr = os.Stderr

	o, err := cmd.StdoutPipe()
	if err != nil {
		return errors.Wrap(err, "failed to get stdout pipe")
	}
	defer o.Close()

	if err := cmd.Start(); err != nil {
		return errors.Wrap(err, "pw-link -m")
	}

	scanner := bufio.NewScanner(o)
	for scanner.Scan() {
		obj, ok := parseLinkEvent(scanner.Text())
		if !ok {
			continue
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case added <- obj:
		}
	}

	return errors.Wrap(cmd.Wait(), "pw-link exited")
}
