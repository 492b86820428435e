// Package pipewire records audio with pw-cat. When a specific node is
// requested, the session links that node's ports to its own input ports
// since the session manager does not honour --target reliably.
package pipewire

import (
	"context"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/noriah/colours/input"
	"github.com/noriah/colours/input/common/execread"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

func init() {
	input.RegisterBackend("pipewire", Backend{})
}

type Backend struct{}

func (p Backend) Init() error {
	return nil
}

func (p Backend) Close() error {
	return nil
}

func (p Backend) Devices() ([]input.Device, error) {
	objs, err := pwDump(context.Background())
	if err != nil {
		return nil, err
	}

	sources := objs.Sources()

	devices := make([]input.Device, len(sources))
	for i, obj := range sources {
		devices[i] = AudioDevice{obj.Info.Props.NodeName}
	}

	return devices, nil
}

func (p Backend) DefaultDevice() (input.Device, error) {
	return AudioDevice{autoTarget}, nil
}

func (p Backend) Start(cfg input.SessionConfig) (input.Session, error) {
	return NewSession(cfg)
}

// autoTarget lets the session manager choose the node to record.
const autoTarget = "auto"

// AudioDevice is a PipeWire node name.
type AudioDevice struct {
	name string
}

func (d AudioDevice) String() string {
	return d.name
}

// sessionProps are attached to the pw-cat node so the session can find its
// own ports in pw-dump output.
type sessionProps struct {
	ApplicationName string `json:"application.name"`
	SessionID       string `json:"colours.id"`
}

// Session is a PipeWire session.
type Session struct {
	session    *execread.Session
	props      sessionProps
	targetName string
}

// NewSession creates a new PipeWire session.
func NewSession(cfg input.SessionConfig) (*Session, error) {
	dv, ok := cfg.Device.(AudioDevice)
	if !ok {
		return nil, errors.Errorf("invalid device type %T", cfg.Device)
	}

	if cfg.FrameSize < 1 || cfg.FrameSize > 2 {
		return nil, errors.New("channel count not supported, mono/stereo only")
	}

	props := sessionProps{
		ApplicationName: "colours",
		SessionID:       generateID(),
	}

	// pw-cat 1.4.0 only writes to stdout when given --raw.
	help, err := exec.Command("pw-cat", "--help").Output()
	if err != nil {
		return nil, errors.Wrap(err, "failed to run pw-cat --help")
	}

	args, err := recordArgs(dv, props, cfg, strings.Contains(string(help), "--raw"))
	if err != nil {
		return nil, err
	}

	return &Session{
		session:    execread.NewSession(args, true, cfg),
		props:      props,
		targetName: dv.name,
	}, nil
}

func recordArgs(dv AudioDevice, props sessionProps, cfg input.SessionConfig, raw bool) ([]string, error) {
	propsJSON, err := json.Marshal(props)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal props")
	}

	// A named target is linked by hand in startRelinker, so pw-cat itself is
	// told not to connect anywhere.
	target := "0"
	if dv.name == autoTarget {
		target = autoTarget
	}

	args := []string{
		"pw-cat",
		"--record",
		"--format", "f32",
		"--rate", fmt.Sprintf("%.0f", cfg.SampleRate),
		"--latency", fmt.Sprint(cfg.SampleSize),
		"--channels", fmt.Sprint(cfg.FrameSize),
		"--target", target,
		"--quality", "0",
		"--media-category", "Capture",
		"--media-role", "DSP",
		"--properties", string(propsJSON),
	}

	if raw {
		args = append(args, "--raw")
	}

	return append(args, "-"), nil
}

// Start runs pw-cat and, for a named target, the relinker until either fails
// or ctx is done.
func (s *Session) Start(ctx context.Context, cb *input.Callback) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 2)

	var wg sync.WaitGroup
	defer wg.Wait()

	wg.Add(1)
	go func() {
		defer wg.Done()
		errCh <- s.session.Start(ctx, cb)
	}()

	if s.targetName != autoTarget {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errCh <- s.startRelinker(ctx)
		}()
	}

	return <-errCh
}

// startRelinker links every output port of the target node to the matching
// input port of our own node, including ports that appear later.
//
// Relevant issues:
//
//   - https://gitlab.freedesktop.org/pipewire/pipewire/-/issues/2731
//   - https://gitlab.freedesktop.org/pipewire/wireplumber/-/issues/358
func (s *Session) startRelinker(ctx context.Context) error {
	var ports map[string]pwObjectID
	var err error

	// our node shows up in pw-dump some time after pw-cat starts
	for i := 0; i < 20; i++ {
		if ports, err = findSessionPorts(ctx, s.props); err == nil {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(100 * time.Millisecond):
		}
	}
	if err != nil {
		return errors.Wrap(err, "failed to find the session's input ports")
	}

	added := make(chan pwLinkObject)
	monitorErr := make(chan error, 1)
	go func() { monitorErr <- pwLinkMonitor(ctx, added) }()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case err := <-monitorErr:
			return err

		case port := <-added:
			if port.DeviceName != s.targetName {
				continue
			}

			ours, ok := matchPort(port, ports)
			if !ok {
				log.WithFields(log.Fields{
					"port":  port.PortName,
					"ports": ports,
				}).Warn("pipewire: cannot match device port")
				continue
			}

			if err := pwLink(port.PortID, ours.PortID); err != nil {
				log.WithError(err).WithFields(log.Fields{
					"from": port.PortName,
					"to":   ours.PortName,
				}).Warn("pipewire: failed to link ports")
			}
		}
	}
}

// matchPort picks the input port of ours that should receive port. A single
// input port takes everything, otherwise the channel suffix must match.
func matchPort(port pwLinkObject, ours map[string]pwObjectID) (pwLinkObject, bool) {
	if len(ours) == 1 {
		for name, id := range ours {
			return pwLinkObject{PortID: id, PortName: name}, true
		}
	}

	_, channel, ok := strings.Cut(port.PortName, "_")
	if !ok {
		return pwLinkObject{}, false
	}

	name := "input_" + channel
	id, ok := ours[name]
	if !ok {
		return pwLinkObject{}, false
	}

	return pwLinkObject{PortID: id, PortName: name}, true
}

func findSessionPorts(ctx context.Context, props sessionProps) (map[string]pwObjectID, error) {
	objs, err := pwDump(ctx)
	if err != nil {
		return nil, err
	}

	return objs.sessionPorts(props)
}

// sessionPorts maps the input port names of the node carrying props to
// their ids.
func (d pwObjects) sessionPorts(props sessionProps) (map[string]pwObjectID, error) {
	node := d.Find(func(obj pwObject) bool {
		if obj.Type != pwInterfaceNode {
			return false
		}

		var p sessionProps
		return json.Unmarshal(obj.Info.Props.JSON, &p) == nil && p == props
	})
	if node == nil {
		return nil, errors.New("session node not found in PipeWire")
	}

	portObjs := d.ResolvePorts(node, pwPortIn)
	if len(portObjs) == 0 {
		return nil, errors.New("session node has no input ports")
	}

	ports := make(map[string]pwObjectID, len(portObjs))
	for _, obj := range portObjs {
		ports[obj.Info.Props.PortName] = obj.ID
	}

	return ports, nil
}

var sessionCounter atomic.Uint64

// generateID returns an id unique to this process and session.
func generateID() string {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(time.Now().Unix()))

	return fmt.Sprintf("%d@%s#%d",
		os.Getpid(),
		base64.RawURLEncoding.EncodeToString(buf[:]),
		sessionCounter.Add(1),
	)
}
