package output

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tsinghua-fib-lab/intersection-sim/utils/config"
	"go.mongodb.org/mongo-driver/mongo"
)

// stepDocument MongoDB中的步进结果文档
type stepDocument struct {
	Job        string    `bson:"job"`
	RunID      string    `bson:"run_id"`
	Step       int       `bson:"step"`
	CreatedAt  time.Time `bson:"created_at"`
	StepStatus `bson:",inline"`
}

// MongoWriter 将结果写入MongoDB集合，每步一个文档
// 说明：同一次运行的文档共享RunID，便于区分同一任务名下的多次运行
type MongoWriter struct {
	client *mongo.Client
	path   config.StoragePath
	job    string
	runID  string
}

// NewMongoWriter 创建MongoDB写出目标
// 参数：client-MongoDB客户端，path-数据库与集合，job-任务名
func NewMongoWriter(client *mongo.Client, path config.StoragePath, job string) *MongoWriter {
	return &MongoWriter{
		client: client,
		path:   path,
		job:    job,
		runID:  uuid.NewString(),
	}
}

// RunID 本次运行的ID
func (w *MongoWriter) RunID() string {
	return w.runID
}

// documents 将结果转换为待写入的文档
func (w *MongoWriter) documents(o *Output, now time.Time) []any {
	docs := make([]any, len(o.StepStatuses))
	for i, s := range o.StepStatuses {
		docs[i] = stepDocument{
			Job:        w.job,
			RunID:      w.runID,
			Step:       i + 1,
			CreatedAt:  now,
			StepStatus: s,
		}
	}
	return docs
}

// Write 批量写入所有步进结果
func (w *MongoWriter) Write(ctx context.Context, o *Output) error {
	if len(o.StepStatuses) == 0 {
		log.Warnf("no step status to write to %s.%s", w.path.DB, w.path.Col)
		return nil
	}
	coll := w.client.Database(w.path.GetDb()).Collection(w.path.GetColl())
	if _, err := coll.InsertMany(ctx, w.documents(o, time.Now())); err != nil {
		return fmt.Errorf("insert step statuses into %s.%s: %w", w.path.DB, w.path.Col, err)
	}
	log.Infof("write %d step statuses to %s.%s (run %s)", len(o.StepStatuses), w.path.DB, w.path.Col, w.runID)
	return nil
}
