// Firmware entry for the RP2 lamp board. Build with, for example:
//
//	tinygo flash -target=pico ./cmd/moodlamp
//	tinygo flash -target=pico -tags moodlamp_breadboard ./cmd/moodlamp
package main

import (
	"context"
	"runtime"
	"time"

	"moodlamp-go/bus"
	"moodlamp-go/services/config"
	"moodlamp-go/services/heartbeat"
	"moodlamp-go/services/lamp"
)

func printTopicWith(prefix string, t bus.Topic) {
	print(prefix)
	print(" ")
	for i := 0; i < t.Len(); i++ {
		if i > 0 {
			print("/")
		}
		switch v := t.At(i).(type) {
		case string:
			print(v)
		case int:
			print(v)
		default:
			print("?")
		}
	}
	println()
}

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)
	println("[main] boot", lamp.BoardName())

	ctx := context.WithValue(context.Background(), config.CtxDeviceKey, lamp.BoardName())

	b := bus.NewBus(4)
	uiConn := b.NewConnection("ui")

	mon := uiConn.Subscribe(bus.T("lamp", "+"))
	go func() {
		for m := range mon.Channel() {
			printTopicWith("[monitor] <-", m.Topic)
		}
	}()

	println("[main] starting lamp …")
	go lamp.Run(ctx, b.NewConnection("lamp"))

	hb := &heartbeat.Service{}
	if err := hb.Start(ctx, b.NewConnection("heartbeat")); err != nil {
		println("[main] heartbeat:", err.Error())
	}

	println("[main] publishing config …")
	config.NewConfigService().Start(ctx, b.NewConnection("config"))

	// Foreground stays idle; everything runs from the interrupt queue.
	for {
		time.Sleep(10 * time.Second)
		printMem()
	}
}

// printMem prints a compact snapshot of TinyGo runtime memory stats.
func printMem() {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	println(
		"[mem]",
		"alloc:", uint32(ms.Alloc),
		"heapInuse:", uint32(ms.HeapInuse),
		"mallocs:", uint32(ms.Mallocs),
		"frees:", uint32(ms.Frees),
	)
}
