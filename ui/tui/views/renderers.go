package views

import (
	"sysdash/ui/tui/state"
)

func RenderMenu(s state.AppState, width, height, cursor int, animCursor float64, mouseX, mouseY int) string {
	v := MenuView{}
	return v.Render(s, ViewProps{
		Width:      width,
		Height:     height,
		MenuCursor: cursor,
		AnimCursor: animCursor,
		MouseX:     mouseX,
		MouseY:     mouseY,
	})
}

func RenderDashboard(s state.AppState, spinnerView, chartView string, width int) string {
	v := DashboardView{}
	return v.Render(s, ViewProps{
		Width:       width,
		SpinnerView: spinnerView,
		ChartView:   chartView,
	})
}

func RenderRawConsole(s state.AppState, width, height, scrollY int) string {
	v := ConsoleView{}
	return v.Render(s, ViewProps{
		Width:   width,
		Height:  height,
		ScrollY: scrollY,
	})
}

func RenderProcessor(s state.AppState, spinnerView, chartView string, width, height int) string {
	v := ProcessorView{}
	return v.Render(s, ViewProps{
		Width:       width,
		Height:      height,
		SpinnerView: spinnerView,
		ChartView:   chartView,
	})
}

func RenderStorage(s state.AppState, spinnerView string, width, height int) string {
	v := StorageView{}
	return v.Render(s, ViewProps{
		Width:       width,
		Height:      height,
		SpinnerView: spinnerView,
	})
}

func RenderMemory(s state.AppState, spinnerView string, width, height int) string {
	v := MemoryView{}
	return v.Render(s, ViewProps{
		Width:       width,
		Height:      height,
		SpinnerView: spinnerView,
	})
}
