/*
Copyright 2025.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package rediskv

import (
	"context"

	goredis "github.com/redis/go-redis/v9"
)

// Queryable is a command or pipeline executable in one round trip.
// Implementations must be re-runnable: the client may execute a
// Queryable a second time during its bounded recovery.
type Queryable interface {
	query(ctx context.Context, rdb *goredis.Client) error
}

// Cmd wraps a single command.
type Cmd struct {
	cmd goredis.Cmder
}

// Command makes a single command queryable. The result stays readable
// from the wrapped Cmder after Query returns.
func Command(cmd goredis.Cmder) Cmd {
	return Cmd{cmd: cmd}
}

func (c Cmd) query(ctx context.Context, rdb *goredis.Client) error {
	return rdb.Process(ctx, c.cmd)
}

// Pipe batches commands into a single round trip.
type Pipe struct {
	cmds []goredis.Cmder
}

// Pipeline makes a batch of commands queryable as one round trip.
func Pipeline(cmds ...goredis.Cmder) Pipe {
	return Pipe{cmds: cmds}
}

func (p Pipe) query(ctx context.Context, rdb *goredis.Client) error {
	pipe := rdb.Pipeline()
	for _, cmd := range p.cmds {
		_ = pipe.Process(ctx, cmd)
	}
	_, err := pipe.Exec(ctx)
	return err
}
