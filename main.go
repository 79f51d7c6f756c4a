package main

import (
	"context"
	"encoding/base64"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"git.fiblab.net/sim/syncer/v3"
	easy "git.fiblab.net/utils/logrus-easy-formatter"
	"github.com/sirupsen/logrus"
	"github.com/tsinghua-fib-lab/intersection-sim/task"
	"github.com/tsinghua-fib-lab/intersection-sim/utils/config"
	"github.com/tsinghua-fib-lab/intersection-sim/utils/input"
	"github.com/tsinghua-fib-lab/intersection-sim/utils/output"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	// 交互模式syncer地址，如果设置为空则独立部署
	syncerAddr = flag.String("syncer", "", "syncer address (empty means standalone mode), e.g. http://localhost:53001")
	// 模拟任务名，用于服务注册与输出文档的job字段
	job = flag.String("job", "job0", "the name of the whole simulation task")
	// 交互模式监听的RPC地址
	grpcAddr = flag.String("listen", ":51102", "gRPC listening address")
	// 配置文件路径，与config-data都为空时使用默认配置
	configPath = flag.String("config", "", "config file path (YAML or JSON)")
	// 配置文件Base64编码后的数据
	configData = flag.String("config-data", "", "config file base64 encoded data")
	// 命令文件路径，与storage.input都为空且未启用generate时进入交互模式
	inputPath = flag.String("input", "", "command file path (.json/.yaml)")
	// 结果文件路径，为空时使用storage.output
	outputPath = flag.String("output", "", "output file path")

	// 随机生成命令序列
	generate         = flag.Bool("generate", false, "generate random commands instead of reading input")
	generateSeed     = flag.Uint64("generate.seed", 0, "random seed of generated commands")
	generateVehicles = flag.Int("generate.vehicles", 100, "number of generated vehicles")

	// log
	logLevels = map[string]logrus.Level{
		"trace":    logrus.TraceLevel,
		"debug":    logrus.DebugLevel,
		"info":     logrus.InfoLevel,
		"warn":     logrus.WarnLevel,
		"error":    logrus.ErrorLevel,
		"critical": logrus.FatalLevel,
		"off":      logrus.PanicLevel,
	}
	logLevel = flag.String("log.level", "info", "日志级别（可选项：trace debug info warn error critical off）")

	log = logrus.WithField("module", "main")
)

func main() {
	flag.Parse()
	logrus.SetFormatter(&easy.Formatter{
		TimestampFormat: "2006-01-02 15:04:05.0000",
		LogFormat:       "[%module%] [%time%] [%lvl%] %msg%\n",
	})
	if level, ok := logLevels[*logLevel]; ok {
		logrus.SetLevel(level)
	} else {
		log.Fatalf("log.level must be one of %v", logLevels)
	}

	c := loadConfig()
	if err := c.Validate(); err != nil {
		log.Fatalf("configuration file is invalid: %v", err)
	}
	log.Infof("%+v", c)

	bg := context.Background()
	var client *mongo.Client
	if c.Storage != nil && c.Storage.URI != "" {
		var err error
		if client, err = input.NewClient(bg, c.Storage.URI); err != nil {
			log.Fatalf("%v", err)
		}
		defer func() {
			if err := client.Disconnect(bg); err != nil {
				log.Warnf("disconnect mongodb: %v", err)
			}
		}()
	}
	writer := newWriter(c, client)

	if *inputPath == "" && !*generate && (c.Storage == nil || c.Storage.Input == nil) {
		if err := serve(c, writer); err != nil {
			log.Fatalf("%v", err)
		}
		return
	}

	commands, err := loadCommands(bg, c, client)
	if err != nil {
		log.Fatalf("error reading input: %v", err)
	}
	if writer == nil {
		log.Fatal("output file or storage.output must be specified")
	}
	ctx, err := task.NewContext(c, commands)
	if err != nil {
		log.Fatalf("%v", err)
	}
	out, runErr := ctx.Run()
	// 出错前的步进结果仍然写出
	if err := writer.Write(bg, out); err != nil {
		log.Fatalf("%v", err)
	}
	if runErr != nil {
		log.Fatalf("simulation failed: %v", runErr)
	}
}

// loadConfig 读取配置文件，未指定时使用默认配置
func loadConfig() config.Config {
	var file []byte
	var err error
	if *configPath != "" {
		file, err = os.ReadFile(*configPath)
		if err != nil {
			log.Fatalf("config file load err: %v", err)
		}
	} else if *configData != "" {
		file, err = base64.StdEncoding.DecodeString(*configData)
		if err != nil {
			log.Fatalf("config data load err: %v", err)
		}
	} else {
		log.Info("no config specified, use default configuration")
		return config.Default()
	}
	c, err := config.Load(file)
	if err != nil {
		log.Fatalf("config file load err: %v", err)
	}
	return c
}

// loadCommands 按generate、input文件、storage.input的优先级获取命令序列
func loadCommands(ctx context.Context, c config.Config, client *mongo.Client) ([]input.Command, error) {
	switch {
	case *generate:
		return input.Generate(c.Control, *generateSeed, *generateVehicles), nil
	case *inputPath != "":
		return input.LoadFile(*inputPath)
	default:
		return input.LoadMongo(ctx, client, *c.Storage.Input)
	}
}

// newWriter 结果写出目标，output文件优先于storage.output，都未指定时返回nil
func newWriter(c config.Config, client *mongo.Client) output.Writer {
	switch {
	case *outputPath != "":
		return output.FileWriter{Path: *outputPath}
	case c.Storage != nil && c.Storage.Output != nil:
		w := output.NewMongoWriter(client, *c.Storage.Output, *job)
		log.Infof("output to %s.%s with run id %s", c.Storage.Output.DB, c.Storage.Output.Col, w.RunID())
		return w
	}
	return nil
}

// serve 交互模式
// 功能：在sidecar上提供路口仿真RPC服务，收到退出信号后关闭服务并写出已有的步进结果
func serve(c config.Config, writer output.Writer) error {
	ctx, err := task.NewInteractiveContext(c)
	if err != nil {
		return err
	}
	sidecar := syncer.NewSidecar(task.SelfName, *grpcAddr, *syncerAddr)
	task.NewService(ctx).Register(sidecar)

	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
		s := <-ch
		log.Infof("receive %v, closing", s)
		sidecar.Close()
	}()

	log.Infof("serving %s on %s", task.IntersectionServiceName, *grpcAddr)
	if err := sidecar.Serve(); err != nil {
		return err
	}
	log.Infof("engine complete: %v", ctx.Clock())
	if writer == nil {
		return nil
	}
	return writer.Write(context.Background(), ctx.Output())
}
