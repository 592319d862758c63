package config

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MongoClient is only set when conversations live in MongoDB.
var MongoClient *mongo.Client

func InitMongo(ctx context.Context, uri string) {
	var err error
	MongoClient, err = mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		Logger.Fatal("Error connecting to MongoDB", zap.Error(err))
	}
	if err := MongoClient.Ping(ctx, nil); err != nil {
		Logger.Fatal("MongoDB cannot be reached after connecting", zap.Error(err))
	}
	Logger.Info("Connected to MongoDB")
}
