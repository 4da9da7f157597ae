package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"bytepower_keyspace/base"
	"bytepower_keyspace/base/log"
	"bytepower_keyspace/client"
	"bytepower_keyspace/commands"
	"bytepower_keyspace/utility"

	"github.com/gogf/greuse"
	"github.com/tidwall/redcon"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/ratelimit"
)

const (
	monitorConnectionInterval = 30 * time.Second
	stopPollInterval          = 10 * time.Millisecond
)

func newInternalError(err error) error {
	return fmt.Errorf("ERR internal error, %w", err)
}

var (
	errInvalidResponse  = errors.New("ERR invalid command response")
	errServerClosing    = errors.New("ERR server is shutting down")
	errAddressIsEmpty   = errors.New("address should not be empty")
	errServerNotRunning = errors.New("server is not running")
)

// ProxyService serves the RESP protocol and forwards every command to the
// upstream Redis with its keys moved under the namespace prefix. Replies are
// written back unchanged, so KEYS and SCAN return prefixed keys.
type ProxyService struct {
	dep          base.Dependency
	client       *client.Client
	cluster      bool
	limiter      ratelimit.Limiter
	address      string
	server       *redcon.Server
	listener     net.Listener
	pprofAddress string
	pprofServer  *http.Server
	pid          int
	stopCh       chan struct{}

	connectionCount int64
	connectionTotal int64
	inflight        int64
	closing         int32
}

// NewProxyService creates a proxy listening on address, which overrides
// config.Server.URL when it is not empty.
func NewProxyService(config base.Config, dep base.Dependency, address string) (*ProxyService, error) {
	if err := dep.Check(); err != nil {
		return nil, err
	}
	if address == "" {
		address = config.Server.URL
	}
	if address == "" {
		return nil, errAddressIsEmpty
	}
	prefix := commands.NewPrefix(config.Namespace.Prefix)
	if err := prefix.CheckPattern(); err != nil {
		return nil, err
	}
	builder := commands.NewBuilder(commands.WithKeyPrefix(prefix))
	var options []client.Option
	if config.CommandInfo.Enabled {
		source := commands.NewRedisCommandInfoSource(dep.Redis, config.CommandInfo.CacheExpiration())
		options = append(options, client.WithCommandInfoSource(source))
	}
	proxyClient, err := client.NewClient(builder, dep, options...)
	if err != nil {
		return nil, err
	}
	limiter := ratelimit.NewUnlimited()
	if config.Server.RateLimitPerSecond > 0 {
		limiter = ratelimit.New(config.Server.RateLimitPerSecond)
	}
	return &ProxyService{
		dep:          dep,
		client:       proxyClient,
		cluster:      config.Redis.IsCluster(),
		limiter:      limiter,
		address:      address,
		pprofAddress: config.Server.PProfURL,
		pid:          os.Getpid(),
		stopCh:       make(chan struct{}),
	}, nil
}

// Run starts serving in the background.
func (service *ProxyService) Run() error {
	service.logWithAddressAndPid(log.LevelInfo, "server.start")
	service.server = redcon.NewServer(service.address, service.connServeHandler, service.connAcceptHandler, service.connCloseHandler)
	service.server.AcceptError = service.connAcceptErrorHandler
	listener, err := greuse.Listen("tcp", service.address)
	if err != nil {
		service.logWithAddressAndPid(log.LevelError, "error.server.listen", log.Error(err))
		return err
	}
	service.listener = listener
	serving := newServingListener(listener)
	go func() {
		if err := service.server.Serve(serving); err != nil {
			service.logWithAddressAndPid(log.LevelError, "error.server.serve", log.Error(err))
			panic(err)
		}
	}()
	// Stop can only close the server once Serve has taken the listener
	<-serving.accepting

	go service.monitorConnections()

	if service.pprofAddress != "" {
		service.logWithAddressAndPid(log.LevelInfo, "server.pprof_start", log.String("pprof_address", service.pprofAddress))
		service.pprofServer = &http.Server{Handler: nil}
		listener, err := greuse.Listen("tcp", service.pprofAddress)
		if err != nil {
			service.logWithAddressAndPid(log.LevelError, "error.server.pprof_listen", log.Error(err))
			return err
		}
		go func() {
			if err := service.pprofServer.Serve(listener); err != nil && err != http.ErrServerClosed {
				service.logWithAddressAndPid(log.LevelError, "error.server.pprof_serve", log.Error(err))
				panic(err)
			}
		}()
	}
	return nil
}

// servingListener closes accepting on the first Accept, which redcon calls
// only after the server holds the listener.
type servingListener struct {
	net.Listener
	once      sync.Once
	accepting chan struct{}
}

func newServingListener(listener net.Listener) *servingListener {
	return &servingListener{Listener: listener, accepting: make(chan struct{})}
}

func (listener *servingListener) Accept() (net.Conn, error) {
	listener.once.Do(func() { close(listener.accepting) })
	return listener.Listener.Accept()
}

// Addr is the address the proxy listens on, with the port resolved when
// the configured port was 0.
func (service *ProxyService) Addr() string {
	if service.listener == nil {
		return service.address
	}
	return service.listener.Addr().String()
}

func (service *ProxyService) monitorConnections() {
	metric := service.dep.Metric
	ticker := time.NewTicker(monitorConnectionInterval)
	defer ticker.Stop()
loop:
	for {
		select {
		case <-ticker.C:
			connectionCount := atomic.LoadInt64(&service.connectionCount)
			service.logWithAddressAndPid(
				log.LevelInfo, "connection.info",
				log.Int64("connection_count", connectionCount),
				log.Int64("total_connection_count", atomic.LoadInt64(&service.connectionTotal)),
			)
			metric.MetricGauge("connection.total", connectionCount)
		case <-service.stopCh:
			break loop
		}
	}
}

// Stop refuses new commands, waits up to waitDuration for running ones and
// then closes every connection.
func (service *ProxyService) Stop(waitDuration time.Duration) error {
	if service.server == nil {
		return errServerNotRunning
	}
	if !atomic.CompareAndSwapInt32(&service.closing, 0, 1) {
		return nil
	}
	deadline := time.Now().Add(waitDuration)
	for atomic.LoadInt64(&service.inflight) > 0 && time.Now().Before(deadline) {
		time.Sleep(stopPollInterval)
	}
	if inflight := atomic.LoadInt64(&service.inflight); inflight > 0 {
		service.logWithAddressAndPid(log.LevelWarn, "server.close.inflight", log.Int64("inflight_count", inflight))
		service.dep.Metric.MetricCount("error.close.inflight", inflight)
	}
	err := service.server.Close()
	if err != nil {
		service.logWithAddressAndPid(log.LevelError, "error.server.close", log.Error(err))
		service.dep.Metric.MetricIncrease("error.close.server")
	} else {
		service.logWithAddressAndPid(
			log.LevelInfo, "server.close",
			log.Int64("connection_count", atomic.LoadInt64(&service.connectionCount)),
		)
	}
	if service.pprofServer != nil {
		if err := service.pprofServer.Close(); err != nil {
			service.logWithAddressAndPid(log.LevelError, "error.server.pprof_close", log.Error(err))
		}
	}
	close(service.stopCh)
	return err
}

func (service *ProxyService) connAcceptHandler(conn redcon.Conn) bool {
	service.dep.Metric.MetricIncrease("connection.accept")
	atomic.AddInt64(&service.connectionTotal, 1)
	connectionCount := atomic.AddInt64(&service.connectionCount, 1)
	service.logWithAddressAndPid(
		log.LevelDebug, "connection.accept",
		log.String("local_addr", conn.NetConn().LocalAddr().String()),
		log.String("remote_addr", conn.RemoteAddr()),
		log.Int64("connection_count", connectionCount),
	)
	return true
}

func (service *ProxyService) connAcceptErrorHandler(err error) {
	service.dep.Metric.MetricIncrease("error.accept")
	service.logWithAddressAndPid(log.LevelError, "error.accept", log.Error(err))
}

func (service *ProxyService) connServeHandler(conn redcon.Conn, cmd redcon.Command) {
	atomic.AddInt64(&service.inflight, 1)
	defer atomic.AddInt64(&service.inflight, -1)
	serveStartTime := time.Now()
	metric := service.dep.Metric
	metric.MetricIncrease("receive.command")

	if atomic.LoadInt32(&service.closing) == 1 {
		writeDataToConnection(conn, commands.NewErrorReply(errServerClosing))
		return
	}
	if len(cmd.Args) > 0 && strings.EqualFold(string(cmd.Args[0]), "quit") {
		conn.WriteString("OK")
		conn.Close()
		return
	}
	service.limiter.Take()

	result := service.processCommand(context.TODO(), cmd)
	writeDataToConnection(conn, result)

	duration := time.Since(serveStartTime)
	if service.dep.Logger.Enabled(log.LevelDebug) {
		service.logWithAddressAndPid(
			log.LevelDebug, "command.end",
			log.String("command", string(cmd.Raw)),
			log.String("result", result.String()),
			log.Duration("duration", duration),
		)
	}
	metric.MetricTimeDuration("process.command.duration", duration)
}

func (service *ProxyService) processCommand(ctx context.Context, cmd redcon.Command) commands.RESPData {
	metric := service.dep.Metric
	ctx, span := base.GetTracer().Start(ctx, "keyspace.command")
	defer span.End()
	if len(cmd.Args) > 0 {
		span.SetAttributes(attribute.String("command", strings.ToLower(string(cmd.Args[0]))))
	}
	command, err := service.client.Parse(ctx, cmd.Args)
	if err != nil {
		metric.MetricIncrease("error.parse")
		service.logWithAddressAndPid(
			log.LevelError, "error.parse",
			log.String("command", string(cmd.Raw)),
			log.Error(err),
		)
		return commands.ConvertErrorToRESPData(err)
	}
	if service.cluster {
		if err := commands.CheckClusterCommand(command); err != nil {
			metric.MetricIncrease("error.cluster_check")
			return commands.ConvertErrorToRESPData(err)
		}
	}
	result, err := service.client.RunCommand(ctx, command)
	if err != nil {
		metric.MetricIncrease("error.execute")
		span.RecordError(err)
		service.logWithAddressAndPid(
			log.LevelError, "error.execute",
			log.String("command", command.String()),
			log.Error(err),
		)
		return commands.NewErrorReply(newInternalError(err))
	}
	if result.DataType == commands.ErrorRespType {
		metric.MetricIncrease("error.reply")
	}
	return result
}

func writeDataToConnection(conn redcon.Conn, data commands.RESPData) {
	switch data.DataType {
	case commands.SimpleStringRespType:
		conn.WriteString(utility.AnyToString(data.Value))
	case commands.BulkStringRespType:
		conn.WriteBulkString(utility.AnyToString(data.Value))
	case commands.ErrorRespType:
		err, ok := data.Value.(error)
		if !ok {
			conn.WriteError(errInvalidResponse.Error())
		} else {
			conn.WriteError(err.Error())
		}
	case commands.IntegerRespType:
		num, ok := data.Value.(int64)
		if !ok {
			conn.WriteError(errInvalidResponse.Error())
		} else {
			conn.WriteInt64(num)
		}
	case commands.NilRespType:
		conn.WriteNull()
	case commands.ArrayRespType:
		array, ok := data.Value.([]commands.RESPData)
		if !ok {
			conn.WriteError(errInvalidResponse.Error())
		} else {
			conn.WriteArray(len(array))
			for _, item := range array {
				writeDataToConnection(conn, item)
			}
		}
	default:
		conn.WriteError(errInvalidResponse.Error())
	}
}

func (service *ProxyService) connCloseHandler(conn redcon.Conn, err error) {
	metric := service.dep.Metric
	metric.MetricIncrease("connection.close")
	connectionCount := atomic.AddInt64(&service.connectionCount, -1)
	if err == nil {
		service.logWithAddressAndPid(
			log.LevelDebug, "connection.close",
			log.String("remote_addr", conn.RemoteAddr()),
			log.Int64("connection_count", connectionCount),
		)
	} else {
		metric.MetricIncrease("error.conn_close")
		service.logWithAddressAndPid(
			log.LevelError, "error.conn_close",
			log.String("remote_addr", conn.RemoteAddr()),
			log.Int64("connection_count", connectionCount),
			log.Error(err),
		)
	}
}

func (service *ProxyService) logWithAddressAndPid(level log.Level, subject string, logPairs ...log.LogPair) {
	pairs := append(
		logPairs,
		log.String("address", service.address),
		log.Int("pid", service.pid),
	)
	service.dep.Logger.Log(level, subject, pairs...)
}
