package input

import (
	"context"
	"fmt"

	"github.com/tsinghua-fib-lab/intersection-sim/utils/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// commandDocument MongoDB中的命令文档，index决定命令顺序
type commandDocument struct {
	Index   int64 `bson:"index"`
	Command `bson:",inline"`
}

// NewClient 连接MongoDB
func NewClient(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	return client, nil
}

// LoadMongo 从MongoDB读取命令序列
// 功能：读取集合中的全部命令文档，按index升序排列
// 参数：ctx-上下文，client-MongoDB客户端，path-数据库与集合
// 返回：命令序列和错误信息
func LoadMongo(ctx context.Context, client *mongo.Client, path config.StoragePath) ([]Command, error) {
	coll := client.Database(path.GetDb()).Collection(path.GetColl())
	log.Infof("start fetching from %s.%s", path.DB, path.Col)
	cursor, err := coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "index", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find commands in %s.%s: %w", path.DB, path.Col, err)
	}
	var docs []commandDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode commands in %s.%s: %w", path.DB, path.Col, err)
	}
	commands := make([]Command, len(docs))
	for i, d := range docs {
		commands[i] = d.Command
	}
	log.Infof("finish fetching %d commands from %s.%s", len(commands), path.DB, path.Col)
	return commands, nil
}
